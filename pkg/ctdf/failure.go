package ctdf

type FailureKind string

const (
	FailureNoData          FailureKind = "NoData"
	FailureEndOfService    FailureKind = "EndOfService"
	FailureStationClosed   FailureKind = "StationClosed"
	FailureAbnormalService FailureKind = "AbnormalService"
	FailureNetworkError    FailureKind = "NetworkError"
	FailureUpstreamError   FailureKind = "UpstreamError"
	FailureUnknown         FailureKind = "Unknown"
)

type FailureReason struct {
	Kind   FailureKind `json:"kind" groups:"basic"`
	Detail string      `json:"detail,omitempty" groups:"detailed"`
}

var failureMessages = map[Language]map[FailureKind]string{
	LanguageTC: {
		FailureUpstreamError:   "API 錯誤",
		FailureEndOfService:    "服務時間已過",
		FailureNoData:          "沒有數據",
		FailureNetworkError:    "網絡錯誤",
		FailureStationClosed:   "車站關閉",
		FailureAbnormalService: "服務受阻",
		FailureUnknown:         "錯誤",
	},
	LanguageSC: {
		FailureUpstreamError:   "API 错误",
		FailureEndOfService:    "服务时间已过",
		FailureNoData:          "没有数据",
		FailureNetworkError:    "网络错误",
		FailureStationClosed:   "车站关闭",
		FailureAbnormalService: "服务受阻",
		FailureUnknown:         "错误",
	},
	LanguageEN: {
		FailureUpstreamError:   "API Error",
		FailureEndOfService:    "End of Service",
		FailureNoData:          "No Data",
		FailureNetworkError:    "Network Error",
		FailureStationClosed:   "Station Closed",
		FailureAbnormalService: "Service Disrupted",
		FailureUnknown:         "Error",
	},
}

// Message is the short phrase shown in place of the arrival times
func (f FailureReason) Message(lang Language) string {
	messages, exists := failureMessages[lang]
	if !exists {
		messages = failureMessages[LanguageTC]
	}

	if message, exists := messages[f.Kind]; exists {
		return message
	}
	return messages[FailureUnknown]
}
