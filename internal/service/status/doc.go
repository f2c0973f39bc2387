// Package status queries the health endpoint of a running card-gate process.
package status
