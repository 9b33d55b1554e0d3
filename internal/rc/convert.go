package rc

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// getTableString reads a string field from a table, or "" when the
// field is absent or not a string.
func getTableString(L *lua.LState, tbl *lua.LTable, key string) string {
	if s, ok := L.GetField(tbl, key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// mapToTable converts a Go map into a Lua table.
func mapToTable(L *lua.LState, m map[string]any) *lua.LTable {
	tbl := L.NewTable()
	for k, v := range m {
		tbl.RawSetString(k, anyToLValue(L, v))
	}
	return tbl
}

// anyToLValue converts a Go value into its Lua counterpart. Values
// outside the supported set are stringified.
func anyToLValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		tbl := L.NewTable()
		for i, item := range val {
			tbl.RawSetInt(i+1, anyToLValue(L, item))
		}
		return tbl
	case map[string]any:
		return mapToTable(L, val)
	default:
		return lua.LString(fmt.Sprintf("%v", val))
	}
}

// tableToMap converts a Lua table into a Go map. Non-string keys are
// dropped.
func tableToMap(tbl *lua.LTable) map[string]any {
	result := make(map[string]any)
	tbl.ForEach(func(key, value lua.LValue) {
		if ks, ok := key.(lua.LString); ok {
			result[string(ks)] = lvalueToAny(value)
		}
	})
	return result
}

// lvalueToAny converts a Lua value into a Go value. A table whose keys
// are all numbers becomes a slice; any other table becomes a map keyed
// by the string form of its keys.
func lvalueToAny(v lua.LValue) any {
	if v == nil || v == lua.LNil {
		return nil
	}

	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		return string(val)
	case *lua.LTable:
		isArray := true
		maxIdx := 0
		val.ForEach(func(k, _ lua.LValue) {
			if num, ok := k.(lua.LNumber); ok {
				if idx := int(num); idx > maxIdx {
					maxIdx = idx
				}
			} else {
				isArray = false
			}
		})

		if isArray && maxIdx > 0 {
			arr := make([]any, maxIdx)
			val.ForEach(func(k, v lua.LValue) {
				if num, ok := k.(lua.LNumber); ok {
					if idx := int(num) - 1; idx >= 0 && idx < maxIdx {
						arr[idx] = lvalueToAny(v)
					}
				}
			})
			return arr
		}

		result := make(map[string]any)
		val.ForEach(func(k, v lua.LValue) {
			result[k.String()] = lvalueToAny(v)
		})
		return result
	default:
		return v.String()
	}
}
