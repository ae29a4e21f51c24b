// Package posting provides the element-id sets shared by the time-index
// registry and the value index. Element ids are the 32-bit store ids handed
// out by the lifecycle owner, so a Roaring bitmap stores them compactly.
package posting
