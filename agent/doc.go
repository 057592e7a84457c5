// Package agent contains the agent implementations and the two composition
// strategies of agentchain.
//
// BaseAgent bundles identity, configuration and best-effort history access;
// embed it in concrete agents. ModelAgent is the provider-backed agent that
// drives a model.Model with optional tool calling. SequentialChain feeds each
// agent's output into the next; ParallelGroup fans prompts out to workers
// concurrently and feeds the labeled results to an aggregator agent.
package agent
