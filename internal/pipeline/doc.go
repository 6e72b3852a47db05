// Package pipeline runs an ordered list of named steps against one shared
// provisioning state.
//
// Each step declares the fields it requires and the fields it provides. New
// rejects any ordering in which a step needs a field that no earlier step
// provides, so the data dependencies are checked before anything runs. Run
// awaits each step in turn and applies the step's Policy when it fails:
//
//   - PolicyFatal stops the pipeline and returns a *errors.StepError
//   - PolicyRecoverable logs the error and continues with degraded state
//   - PolicyBestEffort logs a warning and continues
//
// The State is set-once: a field cannot be overwritten by a later step.
package pipeline
