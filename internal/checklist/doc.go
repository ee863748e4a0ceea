// Package checklist holds the domain model for an eBird checklist: the
// identifier parser, the decoded API payloads, the taxonomy lookup, and the
// assembler that joins them into a Summary ready for rendering.
package checklist
