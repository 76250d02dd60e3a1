// Package provision creates the extension record for a local app, once.
package provision

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/bcext/internal/constants"
	"github.com/fivetwenty-io/bcext/pkg/bcapi"
)

// ManifestReader loads the manifest of the app in workspace.
type ManifestReader interface {
	Read(workspace string) (*bcapi.Manifest, error)
}

// Prompter asks the user to pick one of options. ok is false when the user cancelled.
type Prompter interface {
	PromptChoice(ctx context.Context, options []string) (choice string, ok bool, err error)
}

// Notifier shows messages to the user.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// State is a step of a provisioning run.
type State int

const (
	StateLoadManifest State = iota
	StateCheckExisting
	StateFetchRanges
	StatePromptSelection
	StateCreateExtension
)

func (s State) String() string {
	switch s {
	case StateLoadManifest:
		return "LoadManifest"
	case StateCheckExisting:
		return "CheckExisting"
	case StateFetchRanges:
		return "FetchRanges"
	case StatePromptSelection:
		return "PromptSelection"
	case StateCreateExtension:
		return "CreateExtension"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is the terminal result of a run.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeAlreadyProvisioned
	OutcomeCancelled
	OutcomeProvisioned
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFailed:
		return "Failed"
	case OutcomeAlreadyProvisioned:
		return "AlreadyProvisioned"
	case OutcomeCancelled:
		return "Cancelled"
	case OutcomeProvisioned:
		return "Provisioned"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// FailureReason says which step a failed run stopped in.
type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonInvalidManifest
	ReasonLookupError
	ReasonSelectionError
	ReasonCreationError
)

func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "None"
	case ReasonInvalidManifest:
		return "InvalidManifest"
	case ReasonLookupError:
		return "LookupError"
	case ReasonSelectionError:
		return "SelectionError"
	case ReasonCreationError:
		return "CreationError"
	default:
		return fmt.Sprintf("FailureReason(%d)", int(r))
	}
}

// Result describes how a run ended. Extension is set for AlreadyProvisioned and Provisioned.
type Result struct {
	Outcome   Outcome
	Reason    FailureReason
	Extension *bcapi.Extension
	Err       error
}

// Workflow runs LoadManifest, CheckExisting, FetchRanges, PromptSelection and CreateExtension
// in order. Runs are independent; a Workflow holds no per-run state.
type Workflow struct {
	client   bcapi.Client
	reader   ManifestReader
	prompter Prompter
	notifier Notifier
	logger   bcapi.Logger
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger logs state transitions at debug level.
func WithLogger(logger bcapi.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// New creates a workflow.
func New(client bcapi.Client, reader ManifestReader, prompter Prompter, notifier Notifier, opts ...Option) *Workflow {
	workflow := &Workflow{
		client:   client,
		reader:   reader,
		prompter: prompter,
		notifier: notifier,
	}

	for _, opt := range opts {
		opt(workflow)
	}

	return workflow
}

// Run provisions the extension for the app in workspace. The returned error is the
// failure cause of a Failed run and nil otherwise; it has already been reported through
// the notifier. At most one extension is created per run and nothing is rolled back.
func (w *Workflow) Run(ctx context.Context, workspace string) (*Result, error) {
	w.enter(StateLoadManifest, "")

	manifest, err := w.loadManifest(workspace)
	if err != nil {
		return w.fail(ReasonInvalidManifest, err)
	}

	w.enter(StateCheckExisting, manifest.ID)

	existing, found, err := w.client.Extensions().Get(ctx, manifest.ID)
	if err != nil {
		return w.fail(ReasonLookupError, err)
	}

	if found {
		w.notifier.Info(fmt.Sprintf("Existing extension %s found!", existing.Code))

		return &Result{Outcome: OutcomeAlreadyProvisioned, Extension: existing}, nil
	}

	w.enter(StateFetchRanges, manifest.ID)

	ranges, err := w.client.AssignableRanges().ListAll(ctx)
	if err != nil {
		return w.fail(ReasonLookupError, err)
	}

	w.enter(StatePromptSelection, manifest.ID)

	codes := make([]string, 0, len(ranges))
	for _, assignableRange := range ranges {
		codes = append(codes, assignableRange.Code)
	}

	rangeCode, ok, err := w.prompter.PromptChoice(ctx, codes)
	if err != nil {
		return w.fail(ReasonSelectionError, err)
	}

	if !ok {
		w.debug("provisioning cancelled", map[string]interface{}{"extension_id": manifest.ID})

		return &Result{Outcome: OutcomeCancelled}, nil
	}

	w.enter(StateCreateExtension, manifest.ID)

	extension, err := w.client.Extensions().Create(ctx, &bcapi.ExtensionCreateRequest{
		ID:          manifest.ID,
		RangeCode:   rangeCode,
		Name:        Truncate(manifest.Name, constants.MaxExtensionNameLength),
		Description: Truncate(manifest.Description, constants.MaxExtensionDescriptionLength),
	})
	if err != nil {
		return w.fail(ReasonCreationError, err)
	}

	w.notifier.Info(fmt.Sprintf("Successfully initialized extension %s!", extension.Code))

	return &Result{Outcome: OutcomeProvisioned, Extension: extension}, nil
}

// loadManifest reads the manifest and requires a non-empty id. Every failure is an
// InvalidManifest error.
func (w *Workflow) loadManifest(workspace string) (*bcapi.Manifest, error) {
	manifest, err := w.reader.Read(workspace)
	if err != nil {
		if bcapi.IsInvalidManifest(err) {
			return nil, err
		}

		return nil, bcapi.NewInvalidManifestError("", err)
	}

	if manifest == nil {
		return nil, bcapi.NewInvalidManifestError("", constants.ErrManifestNotFound)
	}

	if manifest.ID == "" {
		return nil, bcapi.NewInvalidManifestError("", constants.ErrManifestIDMissing)
	}

	return manifest, nil
}

func (w *Workflow) fail(reason FailureReason, err error) (*Result, error) {
	w.notifier.Error(err.Error())

	w.debug("provisioning failed", map[string]interface{}{
		"reason": reason.String(),
		"kind":   bcapi.KindOf(err).String(),
		"error":  err.Error(),
	})

	return &Result{Outcome: OutcomeFailed, Reason: reason, Err: err}, err
}

func (w *Workflow) enter(state State, extensionID string) {
	fields := map[string]interface{}{"state": state.String()}
	if extensionID != "" {
		fields["extension_id"] = extensionID
	}

	w.debug("provisioning state", fields)
}

func (w *Workflow) debug(msg string, fields map[string]interface{}) {
	if w.logger != nil {
		w.logger.Debug(msg, fields)
	}
}

// Truncate clamps s to at most limit characters.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}
