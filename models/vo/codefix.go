package vo

// CorrectionResponse 代码纠错结果，接口直接返回该对象，不包裹在统一响应体中
type CorrectionResponse struct {
	ErrorLocation    string `json:"error_location"`
	CorrectCode      string `json:"correct_code"`
	RelatedKnowledge string `json:"related_knowledge"`
}
