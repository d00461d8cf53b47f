// File: internal/service/authorization.go
package service

import "errors"

// ErrNotOwner 表示呼叫者不是資源擁有者
var ErrNotOwner = errors.New("caller is not the resource owner")

// AssertOwner 檢查資源擁有者與呼叫者是否相同
// 所有變更操作執行前都必須通過此檢查，讀取操作不適用
func AssertOwner(ownerID, callerID int) error {
	if ownerID != callerID {
		return ErrNotOwner
	}
	return nil
}
