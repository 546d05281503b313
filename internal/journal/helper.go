package journal

import (
	"fmt"
	"os"
	"path/filepath"
)

// writable 检查目录是否可写，并在必要时创建它。
//
// 通过创建并同步一个临时文件来验证可写性。
func writable(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return &JournalError{
			Operation: "create directory",
			Path:      path,
			Err:       err,
		}
	}

	testFile := filepath.Join(path, "._check_writable")
	f, err := os.Create(testFile)
	if err != nil {
		return &JournalError{
			Operation: "check writability",
			Path:      path,
			Err:       fmt.Errorf("cannot create test file: %w", err),
		}
	}

	defer func() {
		f.Close()
		os.Remove(testFile) // 尽力清理，忽略错误
	}()

	if err := f.Sync(); err != nil {
		return &JournalError{
			Operation: "check writability",
			Path:      path,
			Err:       fmt.Errorf("cannot sync test file: %w", err),
		}
	}

	return nil
}

// specPath 返回 datastore 配置文件的路径。
func specPath(journalPath string) string {
	return filepath.Join(journalPath, "datastore_spec")
}

// fileExists 检查文件是否存在且非空。
//
// 注意：大小为 0 的文件会被视为不存在。
func fileExists(filename string) bool {
	fi, err := os.Stat(filename)
	if err != nil {
		return false
	}

	return fi.Size() > 0
}

// resolvePath 解析路径。
//
// 如果 basePath 是绝对路径，直接返回 basePath。
// 否则，将 basePath 连接到 rootPath 并返回结果。
func resolvePath(rootPath, basePath string) string {
	if filepath.IsAbs(basePath) {
		return basePath
	}
	return filepath.Join(rootPath, basePath)
}
