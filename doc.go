// Package n2k implements an embedded-friendly NMEA 2000 (SAE J1939) protocol
// stack: a descriptor-driven codec engine, CAN identifier algebra, Fast
// Packet transport, and the address-claim/address-manager/network-discovery
// trio that let a node live on a marine CAN bus.
//
// The package performs no heap allocation on its hot paths: payload buffers,
// frame buffers and reassembly sessions are all fixed-size. Two collaborator
// capabilities are injected by the caller rather than owned by the package:
// a CAN bus (send/recv) and a timer (delay), both defined in transport.go.
package n2k
