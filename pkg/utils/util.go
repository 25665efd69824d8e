package utils

import (
	"Bookmall/types"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// ValidatePhone 国内手机号：11 位，1 开头，第二位 3-9
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidateName 收件人姓名 2~20 个字符
func ValidateName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= 2 && n <= 20
}

// ValidateAddress 地址不少于 5 个字符
func ValidateAddress(address string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(address)) >= 5
}

// MaskPhone 中间四位打码，非 11 位原样返回
func MaskPhone(phone string) string {
	if len(phone) != 11 {
		return phone
	}
	return phone[:3] + "****" + phone[7:]
}

// FormatPrice 分转元展示
func FormatPrice(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

// FormatAddress 姓名 手机号 地址 拼接展示
func FormatAddress(addr *types.Address) string {
	if addr == nil {
		return ""
	}
	return fmt.Sprintf("%s %s %s", addr.Name, addr.Phone, addr.Address)
}
