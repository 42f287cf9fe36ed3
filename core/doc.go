// Package core defines the shared data model and capability contracts of the
// netmesh orchestration engine: transitions, proposals, plans, and the
// structural interfaces implemented by agents, delegate simulators, and
// channel/mobility models. Every other package depends on core; core depends
// on nothing but the standard library.
package core
