package types

import "encoding/binary"

// EventType discriminates the variant stored in an EventRecord.
type EventType uint8

const (
	EventTypeFill EventType = iota
	EventTypeOut
	EventTypeLiquidate
)

// DefaultEventQueueCapacity is the number of records the source's event
// queue holds; implementers may choose any fixed M, but 488 is what the
// reserved byte budget in the external layout (§6) assumes.
const DefaultEventQueueCapacity = 488

// EventRecordSize is the fixed, binary-stable footprint of one record.
const EventRecordSize = 208

// EventQueueHeaderSize is the header preceding the record array in the
// external layout: head, count (4 bytes each) and seq_num (8 bytes).
const EventQueueHeaderSize = 16

// EventQueueReservedBytes pads the external layout out to its documented
// total size (16 + M*208 + 64 == 101,584 for M=488).
const EventQueueReservedBytes = 64

// FillEvent records one match between a taker and a resting maker order.
type FillEvent struct {
	TakerSide          Side
	MakerOut           bool
	Timestamp          uint64
	SeqNum             uint64
	MakerOwner         AccountID
	MakerKey           Key128
	MakerClientOrderID uint64
	MakerTimestamp     uint64
	TakerOwner         AccountID
	TakerClientOrderID uint64
	PriceLots          int64
	Quantity           int64
}

// OutEvent records a resting leaf leaving the book without a trade:
// eviction (worst-price or expired) or a self-trade cancel-provide.
type OutEvent struct {
	Side          Side
	Owner         AccountID
	Key           Key128
	ClientOrderID uint64
	Quantity      int64
	Timestamp     uint64
	SeqNum        uint64
}

// NewOutEventFromLeaf builds the Out event sourced from a leaf being
// removed without a match.
func NewOutEventFromLeaf(side Side, leaf *LeafNode) OutEvent {
	return OutEvent{
		Side:          side,
		Owner:         leaf.Owner,
		Key:           leaf.Key,
		ClientOrderID: leaf.ClientOrderID,
		Quantity:      leaf.Quantity,
		Timestamp:     leaf.Timestamp,
	}
}

// LiquidateEvent reserves the third union slot. Nothing in this core
// constructs one; a later liquidation engine can start writing it without
// changing the record size.
type LiquidateEvent struct {
	SeqNum uint64
}

// EventRecord is one slot of the event queue's fixed array: a tag plus
// all three variants, exactly one of which is meaningful per EventType.
type EventRecord struct {
	EventType EventType
	Fill      FillEvent
	Out       OutEvent
	Liquidate LiquidateEvent
}

// NewFillRecord wraps a FillEvent as a tagged record.
func NewFillRecord(f FillEvent) EventRecord {
	return EventRecord{EventType: EventTypeFill, Fill: f}
}

// NewOutRecord wraps an OutEvent as a tagged record.
func NewOutRecord(o OutEvent) EventRecord {
	return EventRecord{EventType: EventTypeOut, Out: o}
}

// AsFill returns the record's Fill payload, or an error if it does not
// hold one.
func (e *EventRecord) AsFill() (*FillEvent, error) {
	if e.EventType != EventTypeFill {
		return nil, ErrWrongEventType
	}
	return &e.Fill, nil
}

// AsOut returns the record's Out payload, or an error if it does not hold
// one.
func (e *EventRecord) AsOut() (*OutEvent, error) {
	if e.EventType != EventTypeOut {
		return nil, ErrWrongEventType
	}
	return &e.Out, nil
}

// AsLiquidate returns the record's Liquidate payload, or an error if it
// does not hold one.
func (e *EventRecord) AsLiquidate() (*LiquidateEvent, error) {
	if e.EventType != EventTypeLiquidate {
		return nil, ErrWrongEventType
	}
	return &e.Liquidate, nil
}

// MarshalBinary renders the record in its external 208-byte layout.
func (e *EventRecord) MarshalBinary() ([]byte, error) {
	buf := make([]byte, EventRecordSize)
	buf[0] = byte(e.EventType)
	switch e.EventType {
	case EventTypeFill:
		f := &e.Fill
		buf[1] = byte(f.TakerSide)
		if f.MakerOut {
			buf[2] = 1
		}
		binary.LittleEndian.PutUint64(buf[8:16], f.Timestamp)
		binary.LittleEndian.PutUint64(buf[16:24], f.SeqNum)
		copy(buf[24:56], f.MakerOwner[:])
		binary.LittleEndian.PutUint64(buf[56:64], f.MakerKey.Hi)
		binary.LittleEndian.PutUint64(buf[64:72], f.MakerKey.Lo)
		binary.LittleEndian.PutUint64(buf[72:80], f.MakerClientOrderID)
		binary.LittleEndian.PutUint64(buf[80:88], f.MakerTimestamp)
		copy(buf[88:120], f.TakerOwner[:])
		binary.LittleEndian.PutUint64(buf[120:128], f.TakerClientOrderID)
		binary.LittleEndian.PutUint64(buf[128:136], uint64(f.PriceLots))
		binary.LittleEndian.PutUint64(buf[136:144], uint64(f.Quantity))
	case EventTypeOut:
		o := &e.Out
		buf[1] = byte(o.Side)
		copy(buf[8:40], o.Owner[:])
		binary.LittleEndian.PutUint64(buf[40:48], o.Key.Hi)
		binary.LittleEndian.PutUint64(buf[48:56], o.Key.Lo)
		binary.LittleEndian.PutUint64(buf[56:64], o.ClientOrderID)
		binary.LittleEndian.PutUint64(buf[64:72], uint64(o.Quantity))
		binary.LittleEndian.PutUint64(buf[72:80], o.Timestamp)
		binary.LittleEndian.PutUint64(buf[80:88], o.SeqNum)
	case EventTypeLiquidate:
		binary.LittleEndian.PutUint64(buf[8:16], e.Liquidate.SeqNum)
	}
	return buf, nil
}

// EventQueue is a fixed-capacity circular buffer of event records with a
// monotonically increasing sequence number, the engine's sole output
// channel.
type EventQueue struct {
	Head   uint32
	Count  uint32
	SeqNum uint64
	Records []EventRecord
}

// NewEventQueue allocates a queue with room for capacity records.
func NewEventQueue(capacity uint32) *EventQueue {
	return &EventQueue{Records: make([]EventRecord, capacity)}
}

// Capacity is the fixed number of records this queue can hold.
func (q *EventQueue) Capacity() uint32 {
	return uint32(len(q.Records))
}

// Len is the number of records currently queued.
func (q *EventQueue) Len() uint32 {
	return q.Count
}

// IsEmpty reports whether the queue holds no records.
func (q *EventQueue) IsEmpty() bool {
	return q.Count == 0
}

// IsFull reports whether the queue has no room for another record.
func (q *EventQueue) IsFull() bool {
	return q.Count == q.Capacity()
}

// PushBack appends ev at (head+count) mod capacity, stamping the queue's
// newly-incremented seq_num into whichever variant ev carries. Fails with
// ErrEventQueueFull without mutating the queue if it is already full.
func (q *EventQueue) PushBack(ev EventRecord) error {
	if q.IsFull() {
		return ErrEventQueueFull
	}
	q.SeqNum++
	switch ev.EventType {
	case EventTypeFill:
		ev.Fill.SeqNum = q.SeqNum
	case EventTypeOut:
		ev.Out.SeqNum = q.SeqNum
	case EventTypeLiquidate:
		ev.Liquidate.SeqNum = q.SeqNum
	}
	idx := (q.Head + q.Count) % q.Capacity()
	q.Records[idx] = ev
	q.Count++
	return nil
}

// PopFront removes and returns the oldest record.
func (q *EventQueue) PopFront() (*EventRecord, error) {
	if q.IsEmpty() {
		return nil, ErrEventQueueEmpty
	}
	ev := q.Records[q.Head]
	q.Head = (q.Head + 1) % q.Capacity()
	q.Count--
	return &ev, nil
}

// PeekFront returns the oldest record without removing it.
func (q *EventQueue) PeekFront() (*EventRecord, error) {
	if q.IsEmpty() {
		return nil, ErrEventQueueEmpty
	}
	ev := q.Records[q.Head]
	return &ev, nil
}

// Iter returns a non-destructive snapshot of every queued record, oldest
// first.
func (q *EventQueue) Iter() []EventRecord {
	out := make([]EventRecord, 0, q.Count)
	for i := uint32(0); i < q.Count; i++ {
		out = append(out, q.Records[(q.Head+i)%q.Capacity()])
	}
	return out
}

// RevertPushes truncates the queue back to desiredLen records, decrementing
// seq_num by the number of records removed. It is the rollback primitive
// AbortTransaction self-trade handling relies on: undo every push made
// during a submission that must not take effect.
func (q *EventQueue) RevertPushes(desiredLen uint32) error {
	if desiredLen > q.Count {
		return ErrRevertPastQueueHead
	}
	removed := q.Count - desiredLen
	q.Count = desiredLen
	q.SeqNum -= uint64(removed)
	return nil
}
