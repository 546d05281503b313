package journal

import (
	"bytes"
	"encoding/json"

	ds "github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/mount"
	flatfs "github.com/ipfs/go-ds-flatfs"
	levelds "github.com/ipfs/go-ds-leveldb"
	measure "github.com/ipfs/go-ds-measure"
	ldbopts "github.com/syndtr/goleveldb/leveldb/opt"
)

// Datastore 是 journal 底层数据存储接口。
//
// 它嵌入 ds.Batching 接口，提供批处理操作能力。
type Datastore interface {
	ds.Batching
}

// Config 描述 journal 的持久化布局。
//
// journal 使用 mount 结构组合两个后端：
//   - /blocks: FlatFS 存储，保存重写前关键字文件的内容快照（按内容寻址）
//   - /: LevelDB 存储，保存事件日志和运行元数据
//
// 两个后端都包裹在 measure 中以便统计磁盘用量。
type Config struct {
	// ArchivePath 是 FlatFS 目录（相对于 journal 根目录）
	ArchivePath string
	// EventsPath 是 LevelDB 目录（相对于 journal 根目录）
	EventsPath string
	// ShardFunc 是 FlatFS 的分片函数
	ShardFunc string
	// Sync 控制 FlatFS 是否在每次写入后同步到磁盘
	Sync bool
}

// DefaultConfig 返回默认的 journal 布局。
func DefaultConfig() Config {
	return Config{
		ArchivePath: "blocks",
		EventsPath:  "events",
		ShardFunc:   "/repo/flatfs/shard/v1/next-to-last/2",
		Sync:        true,
	}
}

// DiskSpec 返回布局的磁盘规范，用于序列化到 datastore_spec 文件，
// 并在重新打开时校验磁盘上的布局未发生变化。
func (c Config) DiskSpec() DiskSpec {
	return DiskSpec{
		"type": "mount",
		"mounts": []interface{}{
			map[string]interface{}{
				"mountpoint": "/blocks",
				"type":       "measure",
				"prefix":     "flatfs.archive",
				"child": map[string]interface{}{
					"type":      "flatfs",
					"path":      c.ArchivePath,
					"sync":      c.Sync,
					"shardFunc": c.ShardFunc,
				},
			},
			map[string]interface{}{
				"mountpoint": "/",
				"type":       "measure",
				"prefix":     "leveldb.journal",
				"child": map[string]interface{}{
					"type":        "levelds",
					"path":        c.EventsPath,
					"compression": "none",
				},
			},
		},
	}
}

// Create 按此布局在 root 下打开（必要时创建）底层 datastore。
//
// 挂载点按前缀降序排列，/blocks 优先于 /。
func (c Config) Create(root string) (Datastore, error) {
	shard, err := flatfs.ParseShardFunc(c.ShardFunc)
	if err != nil {
		return nil, &ConfigError{Field: "shardFunc", Value: c.ShardFunc, Err: err}
	}

	archiveDS, err := flatfs.CreateOrOpen(resolvePath(root, c.ArchivePath), shard, c.Sync)
	if err != nil {
		return nil, &JournalError{Operation: "open archive store", Path: c.ArchivePath, Err: err}
	}

	eventsDS, err := levelds.NewDatastore(resolvePath(root, c.EventsPath), &levelds.Options{
		Compression: ldbopts.NoCompression,
	})
	if err != nil {
		_ = archiveDS.Close()
		return nil, &JournalError{Operation: "open event store", Path: c.EventsPath, Err: err}
	}

	return mount.New([]mount.Mount{
		{
			Prefix:    ds.NewKey("/blocks"),
			Datastore: measure.New("flatfs.archive", archiveDS),
		},
		{
			Prefix:    ds.NewKey("/"),
			Datastore: measure.New("leveldb.journal", eventsDS),
		},
	}), nil
}

// DiskSpec 表示布局配置的磁盘规范。
//
// DiskSpec 是一个键值对映射，序列化为 JSON 后写入 datastore_spec 文件。
type DiskSpec map[string]interface{}

// Bytes 将 DiskSpec 序列化为 JSON 字节数组。
//
// 返回的字节已经过 TrimSpace 处理，适合写入文件。
// 如果序列化失败，会 panic（因为默认配置不应失败）。
func (s DiskSpec) Bytes() []byte {
	b, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}

	return bytes.TrimSpace(b)
}

// String 将 DiskSpec 序列化为 JSON 字符串。
func (s DiskSpec) String() string {
	return string(s.Bytes())
}
