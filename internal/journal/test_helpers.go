package journal

import (
	"os"
	"testing"
)

// TestHelpers 提供测试辅助函数。

// SetupTempDir 创建一个临时目录并返回其路径。
// 如果创建失败，会调用 t.Fatal。
func SetupTempDir(t *testing.T, prefix string) string {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", prefix)
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	return tmpDir
}

// SetupJournal 创建并打开一个新的 journal 实例。
// 返回 journal 实例和临时目录路径，测试结束时自动清理。
func SetupJournal(t *testing.T) (*Journal, string) {
	t.Helper()
	tmpDir := SetupTempDir(t, "journal-test-*")

	j, err := Open(tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Open failed: %v", err)
	}

	t.Cleanup(func() {
		CleanupTestData(t, tmpDir, j)
	})

	return j, tmpDir
}

// CleanupTestData 清理测试数据。
// 如果提供了 journal 实例，会先关闭它。
func CleanupTestData(t *testing.T, path string, journals ...*Journal) {
	t.Helper()

	for _, j := range journals {
		if j != nil {
			if err := j.Close(); err != nil {
				t.Logf("warning: failed to close journal: %v", err)
			}
		}
	}

	if err := os.RemoveAll(path); err != nil {
		t.Logf("warning: failed to remove %s: %v", path, err)
	}
}
