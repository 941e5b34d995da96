package gateway

import (
	"fmt"
	"net/url"
	"strings"
)

// Param 查询参数中的一个键值对。
type Param struct {
	Key   string
	Value any
}

// Query 有序的查询参数。
// - 编码结果保持插入顺序，与浏览器 URLSearchParams 一致（url.Values.Encode 会按键排序，故不用它）。
// - 同一个键可以出现多次。
type Query []Param

// NewQuery 以交替的键、值构造查询参数，例如 NewQuery("status", 1, "size", 30)。
// 参数个数为奇数时最后一个键的值为空串。
func NewQuery(kv ...any) Query {
	q := make(Query, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		var v any = ""
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		q = append(q, Param{Key: fmt.Sprint(kv[i]), Value: v})
	}
	return q
}

// Add 追加一个键值对并返回新的 Query。
func (q Query) Add(key string, value any) Query {
	return append(q, Param{Key: key, Value: value})
}

// Encode 按插入顺序编码为 "a=1&b=x" 形式，空格编码为 "+"。
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, p := range q {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(stringify(p.Value)))
	}
	return sb.String()
}

// stringify 把参数值转为字符串；nil 编码为 "null"，与 URLSearchParams.append 的行为一致。
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
