// Package feed reads the orders shown on the board.
//
// Two JSON documents are merged on every refresh: the delivery feed written
// by the delivery-platform poller and the manual feed written by the counter
// invoicing importer. Each document is a list of order records and can be
// read from a local file or an HTTP endpoint.
package feed
