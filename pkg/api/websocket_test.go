package api

import (
	"testing"
	"time"
)

func TestWSClientSendAfterWriterExit(t *testing.T) {
	c := &WSClient{sendChan: make(chan WSResponse, 1), done: make(chan struct{})}
	c.sendChan <- WSResponse{Type: "pong"} // fill the buffer
	close(c.done)                          // writer is gone

	finished := make(chan struct{})
	go func() {
		c.send(WSResponse{Type: "pong"})
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("send blocked with a full buffer after the writer exited")
	}
}

func TestWSClientSendDelivers(t *testing.T) {
	c := &WSClient{sendChan: make(chan WSResponse, 1), done: make(chan struct{})}
	c.send(WSResponse{Type: "result", ID: "r1"})
	select {
	case msg := <-c.sendChan:
		if msg.ID != "r1" {
			t.Errorf("got message ID %q, want %q", msg.ID, "r1")
		}
	default:
		t.Fatal("no message queued for the writer")
	}
}
