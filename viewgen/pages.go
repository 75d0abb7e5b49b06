package viewgen

// Page 页面种类
type Page string

const (
	PageIndex   Page = "index"
	PageCreate  Page = "create"
	PageDetails Page = "details"
)

// Pages 固定输出顺序
var Pages = []Page{PageIndex, PageCreate, PageDetails}

// FileName 页面文件名
func (p Page) FileName() string {
	return string(p) + ".html"
}

// TemplateName 页面在 html/template 中的名字，例如 categories/index.html
// 各资源的页面放在同名子目录下，通过 define 声明完整名字以免同名文件冲突
func TemplateName(resource string, p Page) string {
	return resource + "/" + p.FileName()
}
