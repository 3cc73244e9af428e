package repository

// 记录在 hash 中的字段名，与 model.Ad 的 json tag 一致
const (
	AttrStatus    = "status"
	AttrUserID    = "userId"
	AttrUserName  = "userName"
	AttrFeatured  = "featured"
	AttrCreatedAt = "createdAt"
	AttrUpdatedAt = "updatedAt"
	AttrLikes     = "likes"
	AttrViewCount = "viewCount"
	AttrComments  = "comments"
)

type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
)

// Condition 单个属性条件，值按存储中的字符串形式比较
type Condition struct {
	Attr  string
	Op    Op
	Value string
}

func Eq(attr, value string) Condition { return Condition{Attr: attr, Op: OpEq, Value: value} }
func Ne(attr, value string) Condition { return Condition{Attr: attr, Op: OpNe, Value: value} }
func Lt(attr, value string) Condition { return Condition{Attr: attr, Op: OpLt, Value: value} }

// Filter 各条件之间为 AND，空 Filter 匹配所有记录
type Filter []Condition

// Match 缺失属性时 Eq 与 Lt 不匹配，Ne 匹配
func (f Filter) Match(fields map[string]string) bool {
	for _, c := range f {
		v, ok := fields[c.Attr]
		switch c.Op {
		case OpEq:
			if !ok || v != c.Value {
				return false
			}
		case OpNe:
			if ok && v == c.Value {
				return false
			}
		case OpLt:
			if !ok || v == "" || v >= c.Value {
				return false
			}
		default:
			return false
		}
	}
	return true
}
