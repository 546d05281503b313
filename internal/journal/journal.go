// Package journal 记录一次清理过程的全部持久化状态。
//
// 每个 journal 是磁盘上的一个目录，包含：
//   - 运行锁文件（防止同一目录被并发清理）
//   - datastore_spec 布局描述文件
//   - LevelDB 事件日志（每次删除/重写/错误一条记录）
//   - FlatFS 内容快照（重写前的关键字文件，按内容寻址，自动去重）
//
// 基本使用：
//
//	j, err := journal.Open("/run/.keyclean")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer j.Close()
//
//	j.Record(ctx, journal.Event{Op: "remove", Path: "/run/model.ansa"})
package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ipfs/boxo/blockstore"
	"github.com/ipfs/go-cid"
	ds "github.com/ipfs/go-datastore"
	"github.com/mitchellh/go-homedir"
	"github.com/multiformats/go-multicodec"
	mh "github.com/multiformats/go-multihash"
	"github.com/rogpeppe/go-internal/lockedfile"
)

const LockFile = ".journal.lock"

type Journal struct {
	locker   sync.Mutex
	closed   bool
	path     string
	run      string
	seq      atomic.Uint64
	lockFile *lockedfile.File
	ds       Datastore
	blocks   blockstore.Blockstore
	builder  cid.Builder
}

// Open 打开（必要时创建）位于 path 的 journal 并获取运行锁。
//
// 如果另一个进程持有同一 journal 的锁，Open 会阻塞直到锁释放。
func Open(path string) (*Journal, error) {
	j, err := newJournal(path)
	if err != nil {
		return nil, err
	}

	if err = writable(j.path); err != nil {
		return nil, err
	}

	if err = j.initSpec(); err != nil {
		return nil, err
	}

	j.locker.Lock()
	defer j.locker.Unlock()

	lockPath := filepath.Join(j.path, LockFile)

	lockFile, err := lockedfile.Create(lockPath)
	if err != nil {
		return nil, &LockError{Path: lockPath, Err: err}
	}

	if _, err = lockFile.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		_ = lockFile.Close()
		_ = os.Remove(lockPath)
		return nil, &LockError{Path: lockPath, Err: err}
	}

	j.lockFile = lockFile

	shouldKeepLock := false
	defer func() {
		if !shouldKeepLock {
			_ = lockFile.Close()
			_ = os.Remove(lockPath)
		}
	}()

	if err = j.openDatastore(); err != nil {
		return nil, err
	}

	j.blocks = blockstore.NewBlockstore(j.ds)
	j.run = fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102T150405Z"), os.Getpid())
	j.builder = cid.V1Builder{
		Codec:    uint64(multicodec.Raw),
		MhType:   mh.SHA2_256,
		MhLength: -1,
	}

	shouldKeepLock = true
	return j, nil
}

func newJournal(path string) (*Journal, error) {
	if path == "" {
		return nil, errors.New("no journal path provided")
	}

	expPath, err := homedir.Expand(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	return &Journal{path: expPath}, nil
}

// Path 返回 journal 的根目录。
func (j *Journal) Path() string {
	return j.path
}

// Run 返回本次运行的标识符，作为事件键的前缀。
func (j *Journal) Run() string {
	return j.run
}

func (j *Journal) initSpec() error {
	sp := specPath(j.path)
	if fileExists(sp) {
		return nil
	}

	return os.WriteFile(sp, DefaultConfig().DiskSpec().Bytes(), 0o600)
}

func (j *Journal) openDatastore() error {
	conf := DefaultConfig()
	spec := conf.DiskSpec()

	oldSpec, err := j.readSpec()
	if err != nil {
		return err
	}

	if oldSpec != spec.String() {
		return &ConfigError{
			Field: "datastore_spec",
			Value: oldSpec,
			Err:   fmt.Errorf("layout on disk does not match '%s'", spec.String()),
		}
	}

	d, err := conf.Create(j.path)
	if err != nil {
		return err
	}

	j.ds = d
	return nil
}

func (j *Journal) readSpec() (string, error) {
	b, err := os.ReadFile(specPath(j.path))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}

// Datastore 返回底层 datastore。
func (j *Journal) Datastore() Datastore {
	j.locker.Lock()
	defer j.locker.Unlock()

	d := j.ds
	return d
}

// Usage 返回 journal 占用的磁盘空间（字节）。
func (j *Journal) Usage(ctx context.Context) (uint64, error) {
	return ds.DiskUsage(ctx, j.Datastore())
}

// Close 关闭底层存储并释放运行锁。重复调用是安全的。
func (j *Journal) Close() error {
	j.locker.Lock()
	defer j.locker.Unlock()

	if j.closed {
		return nil
	}

	var errs []error

	if err := j.ds.Close(); err != nil {
		errs = append(errs, fmt.Errorf("datastore close error: %v", err))
	}

	j.closed = true

	if j.lockFile != nil {
		if err := j.lockFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("lock file close error: %v", err))
		}

		lockPath := j.lockFile.Name()
		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove lock file error: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}

	return nil
}

// Destroy 关闭 journal 并删除其磁盘上的全部内容。
func (j *Journal) Destroy() error {
	j.locker.Lock()
	defer j.locker.Unlock()

	if j.closed {
		return os.RemoveAll(j.path)
	}

	if err := j.ds.Close(); err != nil {
		return err
	}

	j.closed = true

	if j.lockFile != nil {
		if err := j.lockFile.Close(); err != nil {
			return err
		}

		lockPath := j.lockFile.Name()
		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return os.RemoveAll(j.path)
}
