package nodeenv

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/c2h5oh/datasize"
	log "github.com/sirupsen/logrus"

	"github.com/voluzi/nodeprobe/internal/cometbft"
	"github.com/voluzi/nodeprobe/internal/utils"
	pkgutils "github.com/voluzi/nodeprobe/pkg/utils"
)

const waitDelay = 5 * time.Second

// Setup creates the node home described by plan. Steps run in order: layout,
// binaries, storage files, init commands, keys, config overrides. The first
// failing step aborts setup.
func (e *Env) Setup(ctx context.Context, plan Plan) error {
	nodeKeyPath := e.Path(ConfigDir, cometbft.NodeKeyFile)
	if _, err := os.Stat(nodeKeyPath); err == nil && !e.cfg.Force {
		return errors.Wrapf(ErrAlreadyInitialized, "%s", e.home)
	}

	log.WithField("home", e.home).Info("setting up node home")

	for _, dir := range layout {
		if err := os.MkdirAll(e.Path(dir), 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}

	if err := e.copyBinaries(plan); err != nil {
		return err
	}
	if err := e.preallocateStorage(plan.Storage); err != nil {
		return err
	}

	for i, cmd := range plan.Init {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.runInit(ctx, cmd); err != nil {
			return errors.Wrapf(err, "init command %d (%s)", i, cmd.Binary)
		}
	}

	if err := e.ensureKeys(plan.Validator); err != nil {
		return err
	}

	if len(plan.ConfigOverrides) > 0 {
		path := e.Path(ConfigDir, ConfigFile)
		if err := utils.MergeTomlFile(path, plan.ConfigOverrides); err != nil {
			return errors.Wrap(err, "applying config overrides")
		}
		log.WithField("file", path).Info("applied config overrides")
	}

	log.WithField("home", e.home).Info("node home ready")
	return nil
}

func (e *Env) copyBinaries(plan Plan) error {
	for _, name := range plan.Binaries {
		if name != filepath.Base(name) {
			return errors.Errorf("binary %q must be a file name", name)
		}
		src := filepath.Join(plan.BinarySource, name)
		dst := e.Path(BinDir, name)
		if err := pkgutils.CopyFile(src, dst, 0o755); err != nil {
			return errors.Wrapf(err, "copying binary %s", name)
		}

		sum, err := pkgutils.FileSha256(dst)
		if err != nil {
			return err
		}
		log.WithFields(map[string]interface{}{
			"binary": name,
			"sha256": sum,
		}).Info("copied binary")
	}
	return nil
}

func (e *Env) preallocateStorage(files []StorageFile) error {
	for _, sf := range files {
		if sf.Name == "" || sf.Name != filepath.Base(sf.Name) {
			return errors.Errorf("storage file %q must be a file name", sf.Name)
		}
		size, err := datasize.ParseString(sf.Size)
		if err != nil {
			return errors.Wrapf(err, "storage file %s: invalid size %q", sf.Name, sf.Size)
		}

		path := e.Path(StorageDir, sf.Name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		err = preallocate(f, int64(size.Bytes()))
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return errors.Wrapf(err, "preallocating %s", sf.Name)
		}
		log.WithFields(map[string]interface{}{
			"file": sf.Name,
			"size": size.HumanReadable(),
		}).Info("preallocated storage file")
	}
	return nil
}

func (e *Env) resolveBinary(name string) (string, error) {
	if name == filepath.Base(name) {
		local := e.Path(BinDir, name)
		if info, err := os.Stat(local); err == nil && !info.IsDir() {
			return local, nil
		}
	}
	return exec.LookPath(name)
}

func (e *Env) runInit(ctx context.Context, c InitCommand) error {
	bin, err := e.resolveBinary(c.Binary)
	if err != nil {
		return err
	}
	if e.cfg.InitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.InitTimeout)
		defer cancel()
	}
	args := c.expandArgs(e.home)

	logger := log.WithField("cmd", filepath.Base(bin))
	logger.WithField("args", strings.Join(args, " ")).Info("running init command")

	stdout := logger.WriterLevel(log.InfoLevel)
	defer stdout.Close()
	stderr := logger.WriterLevel(log.WarnLevel)
	defer stderr.Close()

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = e.home
	cmd.Env = append(os.Environ(), "NODE_HOME="+e.home)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// children left behind by a killed command must not hold the output pipes open
	cmd.WaitDelay = waitDelay
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return errors.Wrapf(ctx.Err(), "%s", err)
		}
		return err
	}
	return nil
}

// ensureKeys generates the keys that init commands did not create.
func (e *Env) ensureKeys(validator bool) error {
	nodeKeyPath := e.Path(ConfigDir, cometbft.NodeKeyFile)
	if b, err := os.ReadFile(nodeKeyPath); err == nil {
		id, err := cometbft.GetNodeID(b)
		if err != nil {
			return errors.Wrapf(err, "loading %s", nodeKeyPath)
		}
		log.WithField("node-id", id).Info("keeping existing node key")
	} else {
		id, key, err := cometbft.GenerateNodeKey()
		if err != nil {
			return err
		}
		if err := cometbft.WriteKeyFile(nodeKeyPath, key); err != nil {
			return err
		}
		log.WithField("node-id", id).Info("generated node key")
	}

	if !validator {
		return nil
	}
	pvPath := e.Path(ConfigDir, cometbft.PrivValidatorKey)
	b, err := os.ReadFile(pvPath)
	switch {
	case err == nil:
		pv, err := cometbft.LoadPrivKey(b)
		if err != nil {
			return errors.Wrapf(err, "loading %s", pvPath)
		}
		log.WithField("address", pv.Address).Info("keeping existing validator key")
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	key, err := cometbft.GeneratePrivKey()
	if err != nil {
		return err
	}
	if err := cometbft.WriteKeyFile(pvPath, key); err != nil {
		return err
	}
	pv, err := cometbft.LoadPrivKey(key)
	if err != nil {
		return err
	}
	log.WithField("address", pv.Address).Info("generated validator key")
	return nil
}
