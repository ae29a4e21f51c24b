// Package conv provides checked integer conversions for store-assigned ids.
package conv
