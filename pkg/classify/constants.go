package classify

// junkExtensions 是可删除文件的固定扩展名集合（匹配前整体转换为小写）
var junkExtensions = []string{
	".ansa", ".hm", ".mvw", ".catpart", ".cfile",
}

// junkPrefixes 是可删除文件的固定前缀集合
var junkPrefixes = []string{
	"._", "ansa", ".lock", "d3d", "d3f", "lsrun", "mess", "d3h", "lspost",
}

// extraJunkPrefix 是额外的 d3p 前缀，仅在启用 d3p 清理时生效
const extraJunkPrefix = "d3p"

// keySuffixes 是关键字文件的后缀集合（区分大小写）
var keySuffixes = []string{".key", ".k"}
