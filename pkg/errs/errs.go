// Package errs defines the single, closed error taxonomy shared by every
// operation in this module. Every exported function in this repository
// returns either nil or a *Error; callers use errors.As/Is to discriminate.
package errs

import (
	"fmt"
)

// Kind enumerates every distinguishable failure the core can produce.
type Kind int

const (
	// input-shape
	KindMissingManifest Kind = iota
	KindMissingConfig
	KindMissingComponent
	KindInvalidComponentName
	KindManifestExists
	KindMissingMount
	KindInvalidChannelCharacter
	KindInvalidTestingChannel
	KindChannelMismatch
	KindInvalidStashName
	KindNoSupportedEnvironments
	KindUnsupportedEnvironment
	KindInvalidBuildConfiguration

	// state-on-disk
	KindMissingDependencies
	KindDependencyCycle
	KindInvalidVersion
	KindExtraneousDependencies
	KindMissingLockfile
	KindMultipleVersions
	KindMultipleEnvironments
	KindEnvironmentMismatch
	KindNonGlobalDependencies
	KindMissingTarball
	KindMissingBuild
	KindMissingStashArtifact

	// environment
	KindMissingEnvironment
	KindEnvironmentUnspecified

	// backend / network
	KindInstallFailure
	KindBackendFailure
	KindNoIntersectedVersion
	KindMissingBackendCredentials
	KindUploadFailure

	// substrate (wrapped stdlib errors)
	KindIO
	KindParse
	KindTransport
)

// Error is the one type every operation in this module returns on failure.
type Error struct {
	Kind Kind

	// Detail carries the single %s argument most Kinds format with.
	Detail string
	// Detail2 carries a second %s/%d argument for two-argument Kinds.
	Detail2 string

	// Cause wraps an underlying stdlib error (io, json, http) for
	// KindIO/KindParse/KindTransport.
	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindIO, KindParse, KindTransport:
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return "unknown substrate error"
	case KindMissingManifest:
		return "no manifest.json found - are you at repository toplevel?"
	case KindMissingConfig:
		return "no config found in config directory"
	case KindMissingComponent:
		return fmt.Sprintf("component %q not found in manifest", e.Detail)
	case KindInvalidComponentName:
		return fmt.Sprintf("invalid component name %s - not lowercase", e.Detail)
	case KindManifestExists:
		return "manifest already exists (use -f to force)"
	case KindMissingMount:
		return fmt.Sprintf("missing mount %s", e.Detail)
	case KindInvalidChannelCharacter:
		return fmt.Sprintf("invalid channel %q - contains an invalid character", e.Detail)
	case KindInvalidTestingChannel:
		return fmt.Sprintf("invalid channel %q - %q is reserved to the last component", e.Detail, "testing")
	case KindChannelMismatch:
		return fmt.Sprintf("channel %q is not contained by %q", e.Detail, e.Detail2)
	case KindInvalidStashName:
		return fmt.Sprintf("invalid name '%s' to stash under - must not be an integer", e.Detail)
	case KindNoSupportedEnvironments:
		return "need to specify supported environments in the manifest"
	case KindUnsupportedEnvironment:
		return "manifest.environment must exist in manifest.supported_environments"
	case KindInvalidBuildConfiguration:
		return fmt.Sprintf("invalid build configuration - %s", e.Detail)
	case KindMissingDependencies:
		return "core dependencies missing in INPUT - try `lal fetch` first"
	case KindDependencyCycle:
		return fmt.Sprintf("cyclical dependencies found for %s in INPUT", e.Detail)
	case KindInvalidVersion:
		return fmt.Sprintf("dependency %s using incorrect version", e.Detail)
	case KindExtraneousDependencies:
		return fmt.Sprintf("extraneous dependencies in INPUT (%s)", e.Detail)
	case KindMissingLockfile:
		return fmt.Sprintf("no lockfile found for %s", e.Detail)
	case KindMultipleVersions:
		return fmt.Sprintf("depending on multiple versions of %s", e.Detail)
	case KindMultipleEnvironments:
		return fmt.Sprintf("depending on multiple environments to build %s", e.Detail)
	case KindEnvironmentMismatch:
		return fmt.Sprintf("environment mismatch for %s - built in %s", e.Detail, e.Detail2)
	case KindNonGlobalDependencies:
		return fmt.Sprintf("depending on a custom version of %s (use -s to allow stashed versions)", e.Detail)
	case KindMissingTarball:
		return "tarball missing in working directory"
	case KindMissingBuild:
		return "no build found in OUTPUT"
	case KindMissingStashArtifact:
		return fmt.Sprintf("no stashed artifact '%s' found in cache/stash", e.Detail)
	case KindMissingEnvironment:
		return fmt.Sprintf("environment '%s' not found in config", e.Detail)
	case KindEnvironmentUnspecified:
		return "environment must be specified for this operation"
	case KindInstallFailure:
		return "install failed"
	case KindBackendFailure:
		return fmt.Sprintf("backend - %s", e.Detail)
	case KindNoIntersectedVersion:
		return fmt.Sprintf("no version of %s found across all environments", e.Detail)
	case KindMissingBackendCredentials:
		return "missing backend credentials in config"
	case KindUploadFailure:
		return fmt.Sprintf("upload failure: %s", e.Detail)
	default:
		return "unknown error"
	}
}

// Unwrap exposes the wrapped substrate error, if any, to errors.Is/As.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether err is an *Error of the given Kind.
func Is(err error, k Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == k
}

func New(k Kind) error                      { return &Error{Kind: k} }
func NewDetail(k Kind, detail string) error { return &Error{Kind: k, Detail: detail} }
func NewDetail2(k Kind, a, b string) error  { return &Error{Kind: k, Detail: a, Detail2: b} }
func Wrap(k Kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: k, Cause: cause}
}

// IO wraps a filesystem error, matching the substrate category in §7.
func IO(err error) error { return Wrap(KindIO, err) }

// Parse wraps a JSON (un)marshalling error.
func Parse(err error) error { return Wrap(KindParse, err) }

// Transport wraps an HTTP/network error.
func Transport(err error) error { return Wrap(KindTransport, err) }

func MissingManifest() error                 { return New(KindMissingManifest) }
func MissingConfig() error                   { return New(KindMissingConfig) }
func MissingComponent(s string) error        { return NewDetail(KindMissingComponent, s) }
func InvalidComponentName(s string) error    { return NewDetail(KindInvalidComponentName, s) }
func ManifestExists() error                  { return New(KindManifestExists) }
func MissingMount(s string) error            { return NewDetail(KindMissingMount, s) }
func InvalidChannelCharacter(s string) error { return NewDetail(KindInvalidChannelCharacter, s) }
func InvalidTestingChannel(s string) error   { return NewDetail(KindInvalidTestingChannel, s) }
func ChannelMismatch(child, parent string) error {
	return NewDetail2(KindChannelMismatch, child, parent)
}
func InvalidStashName(s string) error          { return NewDetail(KindInvalidStashName, s) }
func NoSupportedEnvironments() error           { return New(KindNoSupportedEnvironments) }
func UnsupportedEnvironment() error            { return New(KindUnsupportedEnvironment) }
func InvalidBuildConfiguration(s string) error { return NewDetail(KindInvalidBuildConfiguration, s) }
func MissingDependencies() error               { return New(KindMissingDependencies) }
func DependencyCycle(s string) error           { return NewDetail(KindDependencyCycle, s) }
func InvalidVersion(s string) error            { return NewDetail(KindInvalidVersion, s) }
func ExtraneousDependencies(s string) error    { return NewDetail(KindExtraneousDependencies, s) }
func MissingLockfile(s string) error           { return NewDetail(KindMissingLockfile, s) }
func MultipleVersions(s string) error          { return NewDetail(KindMultipleVersions, s) }
func MultipleEnvironments(s string) error      { return NewDetail(KindMultipleEnvironments, s) }
func EnvironmentMismatch(dep, env string) error {
	return NewDetail2(KindEnvironmentMismatch, dep, env)
}
func NonGlobalDependencies(s string) error { return NewDetail(KindNonGlobalDependencies, s) }
func MissingTarball() error                { return New(KindMissingTarball) }
func MissingBuild() error                  { return New(KindMissingBuild) }
func MissingStashArtifact(s string) error  { return NewDetail(KindMissingStashArtifact, s) }
func MissingEnvironment(s string) error    { return NewDetail(KindMissingEnvironment, s) }
func EnvironmentUnspecified() error        { return New(KindEnvironmentUnspecified) }
func InstallFailure() error                { return New(KindInstallFailure) }
func BackendFailure(s string) error        { return NewDetail(KindBackendFailure, s) }
func NoIntersectedVersion(s string) error  { return NewDetail(KindNoIntersectedVersion, s) }
func MissingBackendCredentials() error     { return New(KindMissingBackendCredentials) }
func UploadFailure(s string) error         { return NewDetail(KindUploadFailure, s) }
