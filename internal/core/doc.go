// Package core provides the internal implementation of standin's doubles,
// slot installation, mock expectations and assertions.
package core
