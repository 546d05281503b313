package journal

import (
	"context"

	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
)

// Archive 在关键字文件被重写前保存其原始内容。
//
// 内容以原始字节块的形式存入 FlatFS，按 CIDv1（raw codec + SHA2-256）
// 寻址，因此内容相同的文件只保存一份。归档成功后追加一条带 CID 的
// archive 事件，事件写入失败不影响归档结果。
//
// Archive 实现 keyfile.Archiver。
func (j *Journal) Archive(ctx context.Context, path string, data []byte) error {
	c, err := j.builder.Sum(data)
	if err != nil {
		return &JournalError{Operation: "archive", Path: path, Err: err}
	}

	blk, err := blocks.NewBlockWithCid(data, c)
	if err != nil {
		return &JournalError{Operation: "archive", Path: path, Err: err}
	}

	if err := j.blocks.Put(ctx, blk); err != nil {
		return &JournalError{Operation: "archive", Path: path, Err: err}
	}

	_ = j.Record(ctx, Event{
		Op:     "archive",
		Path:   path,
		Detail: c.String(),
	})

	return nil
}

// ArchiveCid 返回给定内容在归档中的 CID，不访问存储。
func (j *Journal) ArchiveCid(data []byte) (cid.Cid, error) {
	return j.builder.Sum(data)
}

// HasArchive 检查给定 CID 的内容是否已归档。
func (j *Journal) HasArchive(ctx context.Context, c cid.Cid) (bool, error) {
	return j.blocks.Has(ctx, c)
}

// ReadArchive 读回给定 CID 的归档内容。
func (j *Journal) ReadArchive(ctx context.Context, c cid.Cid) ([]byte, error) {
	blk, err := j.blocks.Get(ctx, c)
	if err != nil {
		return nil, &JournalError{Operation: "read archive", Path: c.String(), Err: err}
	}

	return blk.RawData(), nil
}
