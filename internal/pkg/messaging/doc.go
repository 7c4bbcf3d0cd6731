// Package messaging publishes and consumes domain events over a broker.
//
// Business code depends on Publisher and Consumer only. Drivers exist for NATS,
// NSQ and Kafka, plus an in-process driver for single-node setups and tests.
package messaging
