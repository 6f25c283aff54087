// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Normaliser: Transforms raw knowledge-base files into documents
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Chat completions for intake and grounded answers
//   - IndexStore: Persistence for index + metadata artifacts
//   - KnowledgeIndex: Read-only retrieval surface over built artifacts
//   - SessionStore: Conversation state persistence
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
