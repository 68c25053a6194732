// Package hyperscan compiles and scans pattern databases with the Hyperscan library through gohs.
//
// The package needs cgo and libhs, so its files are only built with the hyperscan tag:
//
//	go build -tags hyperscan ./...
package hyperscan
