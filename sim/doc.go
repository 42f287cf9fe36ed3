// Package sim ships the builtin delegate simulators: an RIS phase-control
// corridor, a downlink NOMA cell with successive interference cancellation,
// and a V2I highway segment. The channel math is deliberately lightweight;
// the simulators exist to exercise the orchestration engine, not to certify
// link budgets. All three expose fading/mobility model slots through
// core.ModelHost so configured overrides replace their defaults.
package sim
