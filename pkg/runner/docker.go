package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"

	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/status"
	"github.com/dpvpro/lal/pkg/util"
)

// APIVersion is the Docker Engine API version this client is pinned to.
const APIVersion = "1.30"

// DockerRunner is the concrete Runner backed by the Docker Engine API.
type DockerRunner struct {
	cli *client.Client
}

// NewDockerRunner connects to the local Docker Engine.
func NewDockerRunner() (*DockerRunner, error) {
	cli, err := client.NewClientWithOpts(client.WithVersion(APIVersion))
	if err != nil {
		return nil, errs.IO(err)
	}
	return &DockerRunner{cli: cli}, nil
}

// Run creates a container named name from image with workdir (and any
// extra configured mounts) bind-mounted, starts it, runs argv inside it,
// waits for it to exit, and removes the container. The container's output
// is not attached or streamed to the caller; interactive only sets the
// container's TTY and open-stdin flags. The name is
// deterministic per build (see pkg/naming), so a container left behind
// by an interrupted run is removed before the new one is created.
func (d *DockerRunner) Run(ctx context.Context, img, name string, workdir Mount, extra []Mount, interactive bool, argv []string) error {
	status.Info(fmt.Sprintf("pulling %s", img))
	if err := d.ensureImage(ctx, img); err != nil {
		return status.Failed(err)
	}

	if err := d.removeStale(ctx, name); err != nil {
		return status.Failed(err)
	}
	mounts := []mount.Mount{toDockerMount(workdir)}
	for _, m := range extra {
		dm := toDockerMount(m)
		// A user-configured extra mount that duplicates the workdir bind
		// (same source, target, and mode) would otherwise be rejected by
		// the Docker Engine as a conflicting duplicate target.
		if util.CompareMounts([]mount.Mount{dm}, []mount.Mount{mounts[0]}) {
			continue
		}
		mounts = append(mounts, dm)
	}

	status.Info("creating build container")
	resp, err := d.cli.ContainerCreate(ctx, &container.Config{
		Image:        img,
		Cmd:          argv,
		WorkingDir:   workdir.Dest,
		Tty:          interactive,
		AttachStdin:  interactive,
		AttachStdout: true,
		AttachStderr: true,
		OpenStdin:    interactive,
	}, &container.HostConfig{
		Mounts: mounts,
	}, nil, nil, name)
	if err != nil {
		return status.Failed(errs.IO(err))
	}
	defer func() {
		_ = d.cli.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
	}()

	status.Drop()
	if err := d.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return status.Failed(errs.IO(err))
	}

	statusCh, errCh := d.cli.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return status.Failed(errs.IO(err))
		}
	case result := <-statusCh:
		if result.StatusCode != 0 {
			return status.Failed(errs.BackendFailure(fmt.Sprintf("build container exited with %d", result.StatusCode)))
		}
	case <-ctx.Done():
		return status.Failed(errs.IO(ctx.Err()))
	}

	return status.Done()
}

func toDockerMount(m Mount) mount.Mount {
	return mount.Mount{
		Type:     mount.TypeBind,
		Source:   m.Src,
		Target:   m.Dest,
		ReadOnly: m.Readonly,
	}
}

// removeStale removes a container left behind under name by an
// interrupted earlier run, so the deterministic name can be reused.
func (d *DockerRunner) removeStale(ctx context.Context, name string) error {
	_, err := d.cli.ContainerInspect(ctx, name)
	if err != nil {
		if client.IsErrNotFound(err) {
			return nil
		}
		return errs.IO(err)
	}
	if err := d.cli.ContainerRemove(ctx, name, container.RemoveOptions{Force: true}); err != nil {
		return errs.IO(err)
	}
	return nil
}

// ensureImage pulls img if the Docker Engine doesn't already have it.
func (d *DockerRunner) ensureImage(ctx context.Context, img string) error {
	_, _, err := d.cli.ImageInspectWithRaw(ctx, img)
	if err == nil {
		return nil
	}
	rc, err := d.cli.ImagePull(ctx, img, image.PullOptions{})
	if err != nil {
		return errs.IO(err)
	}
	defer rc.Close()
	_, err = io.Copy(io.Discard, rc)
	if err != nil {
		return errs.IO(err)
	}
	return nil
}

var _ Runner = (*DockerRunner)(nil)
