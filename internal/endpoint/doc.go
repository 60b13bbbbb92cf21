// Package endpoint resolves a logical upstream operation against an ordered
// list of candidate URLs. The generation API has shipped the same operation
// under several URL shapes over time; the resolver tries the documented shape
// first and falls through the legacy shapes until one answers with HTTP 200.
package endpoint
