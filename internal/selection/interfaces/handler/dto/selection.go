package dto

type OpenSessionReq struct {
	Token string `json:"token"`
}

type OpenSessionResp struct {
	Token       string `json:"token"`
	SelectedMap int64  `json:"selectedMap"`
	Resumed     bool   `json:"resumed"`
}

// ChangeSelectionReq selectedMap 必填，但任意整数都合法（包括 0 和负数）。
type ChangeSelectionReq struct {
	SelectedMap *int64 `json:"selectedMap" binding:"required"`
}

type SelectionResp struct {
	SelectedMap int64 `json:"selectedMap"`
}

type ChangeSelectionResp struct {
	SelectedMap int64 `json:"selectedMap"`
	Previous    int64 `json:"previous"`
}
