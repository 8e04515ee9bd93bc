// Package extract derives secondary identifiers (task, media, workspace and
// assembly IDs) from loosely structured job events.
//
// Each identifier has its own [Pipeline]: an ordered list of [Strategy]
// values evaluated until one matches. A miss is not an error; the
// identifier is simply absent. The default pipelines look in this order:
//
//  1. [DirectField]: an explicit field on the event
//  2. [ParameterLookup]: the job parameter bag
//  3. [CommandFlag]: a "--flag value" pair in the container command
//  4. [TagLookup]: the job tag set
//  5. [PatternMatch]: a 24-character hex run in the job name
//
// Strategies are plain values with no shared state, so an [Engine] is safe
// for concurrent use once built.
package extract
