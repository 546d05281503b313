// Package classify 提供仿真输出文件的分类判定功能
//
// 本包根据文件名判断一个文件属于哪一类处理对象。
// 判定是纯字符串操作，不访问文件系统，也不读取文件内容，
// 因此对同一个文件名和配置总是返回相同的结果。
//
// 文件分为三类：
//
//   - 垃圾文件：扩展名或前缀命中固定集合（求解器日志、锁文件、中间结果），
//     匹配前整体转换为小写，删除处理
//   - 关键字文件：以 .key 或 .k 结尾（区分大小写）的输入卡片文件，
//     重写处理（剥离 $ 注释行）
//   - 其他文件：不做任何处理
//
// 垃圾判定优先于关键字判定：即使文件名以 .key 结尾，
// 只要命中垃圾集合（如 ansa_model.key），就按垃圾文件删除。
//
// 基本用法：
//
//	import "github.com/tragoedia0722/keyclean/pkg/classify"
//
//	classify.Classify("model.ansa", false)
//	// 结果: classify.KindJunk
//
//	classify.Classify("d3plot01", true)
//	// 结果: classify.KindJunk（仅在启用 d3p 清理时）
//
//	classify.Classify("bumper.key", false)
//	// 结果: classify.KindKeyFile
//
// 测试：
//
//	go test ./pkg/classify/... -v
package classify
