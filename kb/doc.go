// Package kb is a small in-process knowledge base agents consult while
// building proposals. Retrieval is naive substring matching over seeded
// documents; swap in a semantic index behind the same surface for real
// deployments.
package kb
