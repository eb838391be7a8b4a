// Package resolve maps raw field type names to semantic types.
//
// A Chain holds an ordered list of strategies: the first one that recognizes
// a name wins. Strategies may call back into the chain, which is how a generic
// such as "List<Order>" resolves both its container and its parameter.
package resolve
