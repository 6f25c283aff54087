// Package services contains the core business logic, free of
// infrastructure concerns.
//
// Services depend only on domain types and port interfaces. Adapters
// are injected at construction time by the CLI wiring.
//
// # Services
//
//   - IngestService: knowledge-base directory -> persisted retrieval artifacts
//   - RetrievalService: query -> top-k chunks over the loaded artifacts
//   - IntakeService: free-text reply -> validated profile fields
//   - ChatOrchestrator: per-session intake/QA conversation protocol
//
// # Import Rules
//
//   - Can Import: domain, ports/driven, ports/driving, logger
//   - Cannot Import: Any adapter or normaliser package
package services
