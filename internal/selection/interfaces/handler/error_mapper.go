package handler

import (
	"context"
	"errors"

	"Coordinator/internal/selection/app"
	"Coordinator/internal/shared/transport"
	"Coordinator/modules/kit/logx"
)

func mapBizErrToClientCode(err error) int {
	switch {
	case errors.Is(err, app.ErrSessionInvalid):
		return transport.SessionInvalid
	case errors.Is(err, app.ErrInvalidParam):
		return transport.InvalidParam
	default:
		return transport.SystemError
	}
}

func mapTechErrToClientCode(err error) int {
	if errors.Is(err, app.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return transport.RequestTimeout
	}
	return transport.SystemError
}

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
