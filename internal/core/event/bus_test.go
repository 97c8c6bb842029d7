package event

import "testing"

type pingEvent struct{ N int }
type otherEvent struct{}

func TestDispatchDeliversOnce(t *testing.T) {
	bus := NewBus()
	var got []int
	Subscribe(bus, func(ev pingEvent) { got = append(got, ev.N) })

	Emit(bus, pingEvent{N: 1})
	Emit(bus, pingEvent{N: 2})
	if len(got) != 0 {
		t.Fatal("events delivered before Dispatch")
	}

	bus.Dispatch()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got %v, want [1 2]", got)
	}

	// No redelivery.
	bus.Dispatch()
	if len(got) != 2 {
		t.Fatalf("redelivered: %v", got)
	}
}

func TestHandlerEmitLandsNextDispatch(t *testing.T) {
	bus := NewBus()
	var rounds []int
	Subscribe(bus, func(ev pingEvent) {
		rounds = append(rounds, ev.N)
		if ev.N < 3 {
			Emit(bus, pingEvent{N: ev.N + 1})
		}
	})

	Emit(bus, pingEvent{N: 1})
	bus.Dispatch()
	if len(rounds) != 1 {
		t.Fatalf("after first dispatch got %v, want [1]", rounds)
	}
	bus.Dispatch()
	bus.Dispatch()
	if len(rounds) != 3 || rounds[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", rounds)
	}
}

func TestTypedRouting(t *testing.T) {
	bus := NewBus()
	pings, others := 0, 0
	Subscribe(bus, func(pingEvent) { pings++ })
	Subscribe(bus, func(otherEvent) { others++ })

	Emit(bus, pingEvent{})
	bus.Dispatch()
	if pings != 1 || others != 0 {
		t.Errorf("pings=%d others=%d, want 1 and 0", pings, others)
	}
}

func TestDispatchWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	Emit(bus, pingEvent{N: 9})
	bus.Dispatch() // must not panic
}
