package amqp

import (
	"context"
	"errors"
	"testing"

	"github.com/rabbitmq/amqp091-go"
)

// fakeAcknowledger records settlement calls and can be made to fail.
type fakeAcknowledger struct {
	acks     int
	requeues []bool
	err      error
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acks++
	return f.err
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.requeues = append(f.requeues, requeue)
	return f.err
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.err
}

func validEventBody(t *testing.T) []byte {
	t.Helper()
	body, err := NewExpenseEvent(EventCreated, 42).ToJSON()
	if err != nil {
		t.Fatalf("encode event: %v", err)
	}
	return body
}

func TestHandleDeliveryAcksSuccess(t *testing.T) {
	ack := &fakeAcknowledger{}
	delivery := amqp091.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: validEventBody(t)}

	var handled *ExpenseEvent
	handleDelivery(context.Background(), delivery, func(ev *ExpenseEvent) error {
		handled = ev
		return nil
	})

	if handled == nil || handled.ID != 42 {
		t.Fatalf("handler did not receive the event: %+v", handled)
	}
	if ack.acks != 1 || len(ack.requeues) != 0 {
		t.Fatalf("expected one ack and no nacks, got acks=%d nacks=%v", ack.acks, ack.requeues)
	}
}

func TestHandleDeliveryDropsUndecodable(t *testing.T) {
	ack := &fakeAcknowledger{}
	delivery := amqp091.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("not json")}

	handleDelivery(context.Background(), delivery, func(*ExpenseEvent) error {
		t.Fatal("handler must not run for an undecodable payload")
		return nil
	})

	if ack.acks != 0 {
		t.Fatalf("expected no ack, got %d", ack.acks)
	}
	if len(ack.requeues) != 1 || ack.requeues[0] {
		t.Fatalf("expected one nack without requeue, got %v", ack.requeues)
	}
}

func TestHandleDeliveryRequeuesHandlerFailure(t *testing.T) {
	ack := &fakeAcknowledger{}
	delivery := amqp091.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: validEventBody(t)}

	handleDelivery(context.Background(), delivery, func(*ExpenseEvent) error {
		return errors.New("estimate refresh failed")
	})

	if ack.acks != 0 {
		t.Fatalf("expected no ack, got %d", ack.acks)
	}
	if len(ack.requeues) != 1 || !ack.requeues[0] {
		t.Fatalf("expected one nack with requeue, got %v", ack.requeues)
	}
}

func TestHandleDeliverySurvivesSettlementError(t *testing.T) {
	ack := &fakeAcknowledger{err: errors.New("channel closed")}
	delivery := amqp091.Delivery{Acknowledger: ack, DeliveryTag: 4, Body: validEventBody(t)}

	handleDelivery(context.Background(), delivery, func(*ExpenseEvent) error {
		return nil
	})

	if ack.acks != 1 {
		t.Fatalf("expected the ack attempt, got %d", ack.acks)
	}
}
