package errno

// code=0 请求成功
// code=4xx 客户端请求错误
// code=5xx 服务器端错误
// code=2xxxx 业务处理错误码

type Errno struct {
	Code    int
	Message string
}

// Error 实现error接口
func (e *Errno) Error() string {
	return e.Message
}

var (
	OK = &Errno{Code: 200, Message: "Success"}

	ErrInvalidParam = &Errno{Code: 400, Message: "Invalid parameter"}
	ErrNotFound     = &Errno{Code: 404, Message: "Not found"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrDatabase       = &Errno{Code: 501, Message: "Database error"}

	// 业务错误码
	ErrMissingParam      = &Errno{Code: 20001, Message: "Missing required parameter"}
	ErrUploadError       = &Errno{Code: 20002, Message: "Upload error"}
	ErrChunkMissing      = &Errno{Code: 20003, Message: "Expected chunk file is missing"}
	ErrMergeInProgress   = &Errno{Code: 20004, Message: "Merge already in progress for this video"}
	ErrVideoNotFound     = &Errno{Code: 20005, Message: "Video not found"}
	ErrTranscodeFailed   = &Errno{Code: 20006, Message: "Transcode failed"}
	ErrQueueFull         = &Errno{Code: 20007, Message: "Job queue is full"}
	ErrInvalidTransition = &Errno{Code: 20008, Message: "Invalid status transition"}

	// 流媒体错误码
	ErrPathRejected   = &Errno{Code: 20010, Message: "Stream path rejected"}
	ErrStreamNotFound = &Errno{Code: 20011, Message: "Stream file not found"}
)
