package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"

	// DefaultLocale 未指定或无法匹配时使用的语言
	DefaultLocale = LocaleZhCN
)

var supported = []language.Tag{
	language.SimplifiedChinese,
	language.AmericanEnglish,
}

var matcher = language.NewMatcher(supported)

var tagLocales = map[language.Tag]string{
	language.SimplifiedChinese: LocaleZhCN,
	language.AmericanEnglish:   LocaleEnUS,
}

// ResolveLocale 解析请求语言：?locale= 优先，其次 X-Locale 与 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	candidates := []string{
		c.Query("locale"),
		c.GetHeader("X-Locale"),
		c.GetHeader("Accept-Language"),
	}
	for _, raw := range candidates {
		if locale, ok := MatchLocale(raw); ok {
			return locale
		}
	}
	return DefaultLocale
}

// MatchLocale 将语言标签或 Accept-Language 串匹配到受支持语言
func MatchLocale(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	return tagLocales[supported[idx]], true
}

// T 翻译消息 key；缺失时回退默认语言，仍缺失则返回 key 本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
