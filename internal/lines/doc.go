// Package lines generates hot-pool lottery lines and scores them against an
// official draw.
//
// A Line is five distinct main numbers and two distinct bonus ("lucky star")
// numbers, each drawn without replacement from the preferred pool after the
// disfavored numbers have been removed. Generation and comparison are pure:
// the pool is passed in explicitly and randomness comes from an injected Source.
package lines
