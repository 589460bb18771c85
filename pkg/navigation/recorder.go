package navigation

// Recorder は最後の遷移要求を記録する。
// リクエスト単位で生成し、HTTPレスポンスのリダイレクト先決定に使う。
type Recorder struct {
	Path     string
	Replace  bool
	Redirect bool
}

// Navigate は遷移要求を記録する。
func (r *Recorder) Navigate(path string, replace bool) {
	r.Path = path
	r.Replace = replace
	r.Redirect = true
}
