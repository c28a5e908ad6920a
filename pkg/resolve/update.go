package resolve

import (
	"strconv"
	"strings"

	"github.com/dpvpro/lal/pkg/cache"
	"github.com/dpvpro/lal/pkg/channel"
	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/manifest"
)

// UpdateResult describes the outcome for one spec processed by Update,
// for callers that want to log upgrades/downgrades/channel-changes.
type UpdateResult struct {
	Name       string
	OldVersion *uint32
	NewVersion *uint32
	OldChannel *string
	NewChannel *string
	StashLabel string
}

// Update resolves each spec (bare "name", "name=version",
// "name=channel/version", or "name=label" for a stash lookup) against the
// backend and unpacks the result into inputDir. If save or saveDev is
// set, the caller's manifest dependency/dev-dependency map is rewritten
// in place; callers are responsible for calling manifest.Write
// afterwards.
func Update(c *cache.Cached, m *manifest.Manifest, specs []string, save, saveDev bool, env string, inputDir string) ([]UpdateResult, error) {
	var results []UpdateResult
	for _, spec := range specs {
		name, coordsPart, hasCoords := strings.Cut(spec, "=")
		if !manifest.ValidComponentName(name) {
			return results, errs.InvalidComponentName(name)
		}

		current, hasCurrent := m.Dependencies[name]
		if !hasCurrent {
			current, hasCurrent = m.DevDependencies[name]
		}

		var result UpdateResult
		result.Name = name
		if hasCurrent {
			v := current.Version
			result.OldVersion = &v
			result.OldChannel = current.Channel
		}

		var targetVersion *uint32
		var targetChannel channel.Channel
		var stashLabel string

		switch {
		case !hasCoords:
			// Bare name: use the current channel, find the latest
			// version supported across every supported environment.
			targetChannel = currentChannelOrDefault(current)
			versions, err := c.GetLatestSupportedVersions(name, m.SupportedEnvironments, targetChannel)
			if err != nil {
				return results, err
			}
			v := versions[0]
			targetVersion = &v

		default:
			version, ch := channel.ParseCoords(coordsPart)
			if version != nil {
				targetVersion = version
				if ch != nil {
					targetChannel = *ch
				} else {
					targetChannel = currentChannelOrDefault(current)
				}
				if err := targetChannel.Verify(); err != nil {
					return results, err
				}
				if ownCh := ownChannel(m); ownCh != nil {
					if err := channel.Contains(*ownCh, targetChannel); err != nil {
						return results, err
					}
				}
			} else if ch != nil && strings.Contains(coordsPart, "/") {
				if err := ch.Verify(); err != nil {
					return results, err
				}
				targetChannel = *ch
				versions, err := c.GetLatestSupportedVersions(name, m.SupportedEnvironments, targetChannel)
				if err != nil {
					return results, err
				}
				v := versions[0]
				targetVersion = &v
			} else {
				// Not an integer and no '/', so not a channel path: a
				// stash label.
				if _, err := strconv.ParseUint(coordsPart, 10, 32); err == nil {
					return results, errs.InvalidStashName(coordsPart)
				}
				stashLabel = coordsPart
			}
		}

		if stashLabel != "" {
			if err := c.UnpackStashedComponent(name, stashLabel, inputDir); err != nil {
				return results, err
			}
			result.StashLabel = stashLabel
		} else {
			if _, err := c.UnpackPublishedComponent(name, targetVersion, env, targetChannel, inputDir); err != nil {
				return results, err
			}
			result.NewVersion = targetVersion
			chStr := targetChannel.String()
			if targetChannel.Empty() {
				result.NewChannel = nil
			} else {
				result.NewChannel = &chStr
			}
		}

		if save || saveDev {
			coord := manifest.Coordinates{}
			if targetVersion != nil {
				coord.Version = *targetVersion
			}
			if !targetChannel.Empty() {
				s := targetChannel.String()
				coord.Channel = &s
			}
			if save {
				if m.Dependencies == nil {
					m.Dependencies = map[string]manifest.Coordinates{}
				}
				m.Dependencies[name] = coord
			} else {
				if m.DevDependencies == nil {
					m.DevDependencies = map[string]manifest.Coordinates{}
				}
				m.DevDependencies[name] = coord
			}
		}

		results = append(results, result)
	}
	return results, nil
}

// UpdateAll runs Update over every key in the manifest's dependency and
// dev-dependency maps (bare-name specs, i.e. "update to latest").
func UpdateAll(c *cache.Cached, m *manifest.Manifest, save, saveDev, core bool, env, inputDir string) ([]UpdateResult, error) {
	var specs []string
	for name := range m.Dependencies {
		specs = append(specs, name)
	}
	if !core {
		for name := range m.DevDependencies {
			specs = append(specs, name)
		}
	}
	return Update(c, m, specs, save, saveDev, env, inputDir)
}

func currentChannelOrDefault(c manifest.Coordinates) channel.Channel {
	if c.Channel == nil {
		return channel.Default()
	}
	return channel.Parse(*c.Channel)
}

func ownChannel(m *manifest.Manifest) *channel.Channel {
	if m.Channel == nil {
		return nil
	}
	ch := channel.Parse(*m.Channel)
	return &ch
}
