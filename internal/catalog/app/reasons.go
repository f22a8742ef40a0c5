package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 业务拒绝 reason，由接口层映射为客户端业务码。
	ReasonMapNotFound        = NewReason("MAP_NOT_FOUND", "地图不存在")
	ReasonCoordinateNotFound = NewReason("COORDINATE_NOT_FOUND", "坐标不存在")
	ReasonMapFieldsRequired  = NewReason("MAP_FIELDS_REQUIRED", "地图名称和版本不能为空")
	ReasonCoordNameRequired  = NewReason("COORDINATE_NAME_REQUIRED", "坐标名称不能为空")
)

var (
	// 技术错误 reason，用于日志与排障。
	ReasonMapRepoUnavailable   = NewReason("MAP_REPO_UNAVAILABLE", "地图存储不可用")
	ReasonCoordRepoUnavailable = NewReason("COORDINATE_REPO_UNAVAILABLE", "坐标存储不可用")
	ReasonSeedImportFail       = NewReason("SEED_IMPORT_FAIL", "种子数据导入失败")
)
