// Package badgerstore provides an embedded BadgerDB-backed table store.
//
// BadgerDB gives low-latency local persistence without one file per record,
// which suits deployments that keep many small tables on a single node.
// Transactions make each upsert atomic; readers never see partial records.
package badgerstore
