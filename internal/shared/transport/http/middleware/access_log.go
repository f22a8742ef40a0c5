package middleware

import (
	"net/http"

	"Coordinator/internal/shared/transport"
	"Coordinator/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog 每个 HTTP 请求输出一条 access 日志。
// 业务码优先取 handler 通过 transport.SetBizCode 写入的值，没写时按 HTTP 状态码推断。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx := transport.NewContextWithParent(c.Request.Context(), c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if !transport.BizCodeSet(ctx) {
			transport.SetBizCode(ctx, transport.BizCode(statusToBizCode(c.Writer.Status())))
		}
		transport.AddFields(ctx,
			zap.Int("status", c.Writer.Status()),
			zap.String("client_ip", c.ClientIP()),
		)
		if last := c.Errors.Last(); last != nil {
			transport.SetErrorReason(ctx, last.Error())
		}
		transport.WriteAccessLog(ctx, log)
	}
}

func statusToBizCode(status int) int {
	switch {
	case status >= http.StatusInternalServerError:
		return transport.SystemError
	case status >= http.StatusBadRequest:
		return transport.InvalidParam
	default:
		return transport.OK
	}
}
