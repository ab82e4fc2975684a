// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package aig provides a structurally hashed and-inverter graph manager.
//
// An and-inverter graph (AIG) is a directed acyclic graph whose internal
// nodes are two input and gates and whose edges may be complemented.  A
// Manager owns all nodes.  Nodes are created by Pi, Latch and Build and are
// identified by an ID which is stable for the lifetime of the node and is
// never reused.  Since a node can only be created after its fanins, ID order
// is a topological order.
//
// Edges are values of type Edge, which pack an ID and a complement bit.
// The constant node has ID 0, so False is the positive edge to it and True
// its complement.
//
// The manager keeps reference counts, fanout lists and levels up to date on
// every operation.  Replace substitutes one node by an edge throughout the
// graph, rebuilding the transitive fanout through the structural hash table
// and collecting nodes which are no longer referenced.
package aig
