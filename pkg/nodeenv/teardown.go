package nodeenv

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
	"github.com/c2h5oh/datasize"
	"github.com/klauspost/pgzip"
	log "github.com/sirupsen/logrus"

	"github.com/voluzi/nodeprobe/pkg/utils"
)

// Teardown removes the node home after operator confirmation, archiving the
// data directory first when an archive path is configured.
func (e *Env) Teardown(ctx context.Context) error {
	if _, err := os.Stat(e.home); errors.Is(err, os.ErrNotExist) {
		log.WithField("home", e.home).Info("node home does not exist, nothing to do")
		return nil
	}

	if e.cfg.ArchivePath != "" {
		if err := e.checkArchive(); err != nil {
			return err
		}
	}

	size, err := utils.DirSize(e.home)
	if err != nil {
		return err
	}
	human := datasize.ByteSize(size).HumanReadable()

	if !e.cfg.Yes {
		ok, err := e.confirm(fmt.Sprintf("Remove %s (%s)? [y/N] ", e.home, human))
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if e.cfg.ArchivePath != "" {
		if err := e.archiveData(); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(e.home); err != nil {
		return errors.Wrapf(err, "removing %s", e.home)
	}
	log.WithFields(map[string]interface{}{
		"home": e.home,
		"size": human,
	}).Info("node home removed")
	return nil
}

func (e *Env) confirm(prompt string) (bool, error) {
	if _, err := fmt.Fprint(e.cfg.Out, prompt); err != nil {
		return false, err
	}
	answer, err := bufio.NewReader(e.cfg.In).ReadString('\n')
	if err != nil && answer == "" {
		// EOF without an answer means no
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// checkArchive rejects archives inside the home, which would either be
// removed with it or end up archiving themselves, and invalid levels.
func (e *Env) checkArchive() error {
	if e.cfg.ArchiveLevel < pgzip.HuffmanOnly || e.cfg.ArchiveLevel > pgzip.BestCompression {
		return errors.Errorf("invalid archive compression level %d", e.cfg.ArchiveLevel)
	}

	abs, err := filepath.Abs(e.cfg.ArchivePath)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(e.home, abs)
	if err != nil {
		return err
	}
	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return errors.Errorf("archive %s must be outside the node home %s", abs, e.home)
	}
	return nil
}

func (e *Env) archiveData() error {
	dataDir := e.Path(DataDir)
	if _, err := os.Stat(dataDir); err != nil {
		log.WithField("dir", dataDir).Warn("no data directory to archive")
		return nil
	}

	f, err := os.Create(e.cfg.ArchivePath)
	if err != nil {
		return errors.Wrap(err, "creating archive")
	}
	if err := compressTarGz(dataDir, f, e.cfg.ArchiveLevel); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "archiving data")
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.WithField("archive", e.cfg.ArchivePath).Info("data directory archived")
	return nil
}
