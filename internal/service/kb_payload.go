package service

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/Kredenk/shiguang-warehouse/internal/dto"
)

// ErrKbPayloadNotJSON 教务系统返回的不是 JSON（通常是登录页 HTML）
var ErrKbPayloadNotJSON = errors.New("数据返回格式错误，可能是您未成功登录或会话已过期")

// kbListField 课表记录数组所在字段
const kbListField = "kbList"

// DecodeKbPayload 从教务系统响应中取出 kbList 记录
//
// 仅当输入根本不是 JSON 时返回 ErrKbPayloadNotJSON。
// 顶层不是对象、缺少 kbList、kbList 为 null 或不是数组，均视为零条记录；
// 数组中不是对象的元素直接丢弃。
func DecodeKbPayload(raw []byte) ([]dto.RawCourseRecord, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !json.Valid(raw) {
		return nil, ErrKbPayloadNotJSON
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return []dto.RawCourseRecord{}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(top[kbListField], &elems); err != nil {
		return []dto.RawCourseRecord{}, nil
	}

	records := make([]dto.RawCourseRecord, 0, len(elems))
	for _, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			continue
		}
		var rec dto.RawCourseRecord
		if err := json.Unmarshal(elem, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
