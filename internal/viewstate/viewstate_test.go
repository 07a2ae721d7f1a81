package viewstate

import (
	"sync"
	"testing"
)

func TestSubscribeReceivesCurrentAndLatest(t *testing.T) {
	s := New(1)
	ch, cancel := s.Subscribe()
	defer cancel()

	if got := <-ch; got != 1 {
		t.Fatalf("expected initial state 1, got %d", got)
	}

	s.Set(2)
	s.Set(3)
	if got := <-ch; got != 3 {
		t.Errorf("expected newest state 3, got %d", got)
	}

	got := s.Update(func(v int) int { return v * 10 })
	if got != 30 || s.Get() != 30 {
		t.Errorf("expected 30, got %d / %d", got, s.Get())
	}
	if v := <-ch; v != 30 {
		t.Errorf("expected 30 on channel, got %d", v)
	}
}

func TestCancelClosesChannel(t *testing.T) {
	s := New("a")
	ch, cancel := s.Subscribe()
	<-ch
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after cancel")
	}
	s.Set("b")
}

func TestCloseStopsDelivery(t *testing.T) {
	s := New(0)
	ch, _ := s.Subscribe()
	<-ch
	s.Close()
	if _, ok := <-ch; ok {
		t.Error("expected closed channel after Close")
	}

	late, _ := s.Subscribe()
	if _, ok := <-late; ok {
		t.Error("expected subscription after Close to be closed")
	}
}

func TestConcurrentSet(t *testing.T) {
	s := New(0)
	ch, cancel := s.Subscribe()
	defer cancel()

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			s.Set(v)
		}(i)
	}
	wg.Wait()

	last := <-ch
	if last != s.Get() {
		t.Errorf("expected buffered value %d to equal current state %d", last, s.Get())
	}
}
