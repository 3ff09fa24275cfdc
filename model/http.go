package model

type LengthResponse struct {
	Length int `json:"length"`
}

type SampleResponse struct {
	Index  int         `json:"index"`
	Input  [][]float32 `json:"input"`
	Target [][]float32 `json:"target"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
