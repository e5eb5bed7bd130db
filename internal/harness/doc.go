// Package harness runs scripted sessions against the simulation engine.
//
// A scenario drives a fresh engine through a flow of operations, records
// every operation and the notifications it produced as a trace, and checks
// assertions against the trace and the final state.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	config:              # optional overrides, same keys as the config file
//	  spawn_chance: 0
//	random:              # optional scripted draws (default: lowest legal value)
//	  floats: [0.01]
//	  ints: [8, 4321]
//	  choices: [1]
//	seed: 42             # optional; replaces the scripted source with a seeded one
//	flow:
//	  - op: accept_delivery
//	  - op: advance
//	    ms: 1500
//	  - op: scan
//	    order: ORD-1016  # or code: "4321"
//	  - op: issue        # first waiting customer unless customer is set
//	    expect_error: ORDER_NOT_READY
//	assertions:
//	  - type: stats
//	    expect: { bonus: 80, orders_accepted: 8 }
//	  - type: order
//	    order: ORD-1016
//	    status: ready    # or "absent"
//	  - type: state
//	    expect: { customers: 0, on_break: false }
//	  - type: trace_order
//	    kinds: [delivery_requested, delivery_completed]
//
// # Operations
//
//   - accept_delivery, toggle_break: no arguments
//   - advance: ms of simulated time
//   - tick: count clock ticks (default 1)
//   - scan: code, or order to scan that order's code
//   - admit, return: order
//   - issue: customer ID, or the first waiting customer
//
// # Assertion Types
//
//   - trace_contains: a notification of kind (and subject, if set) was emitted
//   - trace_order: notification kinds appear in this relative order
//   - trace_count: exactly count notifications of kind
//   - stats: subset match on the final ledger stats
//   - state: subset match on customers, orders, on_break, time,
//     pending_deliveries, income, journal
//   - order: final status of one order, or "absent"
//
// # Deterministic Testing
//
// Every run gets its own engine, an in-memory journal, sequential customer
// IDs (CUST-1, CUST-2, ...) and scripted randomness, so traces are identical
// across runs and can be compared against golden files.
package harness
