package resilience_test

import (
	"fmt"
	"time"

	"github.com/jonwraymond/regops/resilience"
)

func ExampleCircuitBreaker() {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		MaxFailures: 2,
		CoolDown:    time.Minute,
	})

	fmt.Println("Initial state:", cb.State())

	// Record failures until the circuit trips.
	cb.RecordFailure()
	cb.RecordFailure()
	fmt.Println("After failures:", cb.State())

	// Reset the circuit.
	cb.Reset()
	fmt.Println("After reset:", cb.State())
	// Output:
	// Initial state: closed
	// After failures: open
	// After reset: closed
}

func ExampleWindow() {
	w := resilience.NewWindow(resilience.WindowConfig{PerMinute: 2})

	fmt.Println(w.Allow())
	fmt.Println(w.Allow())
	fmt.Println(w.Allow())
	// Output:
	// true
	// true
	// false
}
