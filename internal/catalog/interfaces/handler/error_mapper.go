package handler

import (
	"context"
	"errors"

	"Coordinator/internal/catalog/app"
	"Coordinator/internal/shared/transport"
	"Coordinator/modules/kit/errx"
	"Coordinator/modules/kit/logx"
)

func mapBizErrToClientCode(err error) int {
	switch {
	case errors.Is(err, app.ErrMapNotExist):
		return transport.MapNotExist
	case errors.Is(err, app.ErrCoordinateNotExist):
		return transport.CoordinateNotExist
	case errors.Is(err, app.ErrInvalidParam):
		return transport.InvalidParam
	default:
		return transport.SystemError
	}
}

func mapTechErrToClientCode(err error) int {
	switch {
	case errors.Is(err, errx.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return transport.RequestTimeout
	case errors.Is(err, app.ErrUnavailable):
		return transport.StorageUnavailable
	default:
		return transport.SystemError
	}
}

// HandleError 统一在接口层打印一次日志并换算客户端业务码。
func HandleError(ctx context.Context, log logx.Logger, action string, err error) (int, string) {
	reason := app.GetErrorReasonCode(err)
	transport.SetErrorReason(ctx, reason)

	if app.IsBizError(err) {
		logx.ReportBiz(ctx, log, logx.NewBizLog(action, reason, app.GetErrorMessage(err)))
		return mapBizErrToClientCode(err), app.GetErrorMessage(err)
	}

	logx.ReportSysError(ctx, log, logx.NewSysLog(action, err))
	return mapTechErrToClientCode(err), "系统繁忙，请稍后重试"
}
