// Package lockorder checks the store → element lock acquisition order at
// runtime. The store enables it with the lock_order_checks config flag.
package lockorder
