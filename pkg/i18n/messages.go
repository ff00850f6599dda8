package i18n

// Message keys used outside this package
const (
	KeyDependsOnDefaultLanguageRecord = "integrity.depends_on_default_language_record"
	KeyIsDefaultLanguageRecord        = "integrity.is_default_language_record"
	KeyStatusSuccess                  = "integrity.status.success"
	KeyStatusInfo                     = "integrity.status.info"
	KeyStatusWarning                  = "integrity.status.warning"
	KeyStatusError                    = "integrity.status.error"
	KeyNoTitle                        = "integrity.no_title"
)

// DefaultMessages returns built-in translations for all supported locales.
// These can be overridden by loading JSON files from a directory.
func DefaultMessages() map[Locale]map[string]string {
	return map[Locale]map[string]string{
		LocaleKo: koMessages,
		LocaleEn: enMessages,
		LocaleJa: jaMessages,
	}
}

var koMessages = map[string]string{
	// Workspace integrity
	KeyDependsOnDefaultLanguageRecord: "\"%s\" 항목은 아직 게시되지 않은 기본 언어 레코드에 의존합니다",
	KeyIsDefaultLanguageRecord:        "\"%s\" 항목이 의존하는 기본 언어 레코드입니다",
	KeyStatusSuccess:                  "문제 없음",
	KeyStatusInfo:                     "정보",
	KeyStatusWarning:                  "경고",
	KeyStatusError:                    "오류",
	KeyNoTitle:                        "[제목 없음]",

	// Forms
	"form.not_found":        "폼 정의를 찾을 수 없습니다",
	"form.save_success":     "폼 정의가 저장되었습니다",
	"form.delete_success":   "폼 정의가 삭제되었습니다",
	"form.not_allowed":      "허용되지 않은 저장 위치입니다",
	"form.duplicate":        "같은 식별자를 가진 폼 정의가 이미 있습니다",
	"form.invalid_document": "폼 정의를 해석할 수 없습니다",

	// Common errors
	"error.not_found":      "요청한 리소스를 찾을 수 없습니다",
	"error.unauthorized":   "인증이 필요합니다",
	"error.forbidden":      "접근 권한이 없습니다",
	"error.conflict":       "요청이 현재 상태와 충돌합니다",
	"error.bad_request":    "잘못된 요청입니다",
	"error.internal":       "서버 내부 오류가 발생했습니다",
	"error.admin_required": "관리자 권한이 필요합니다",
	"error.rate_limited":   "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
}

var enMessages = map[string]string{
	// Workspace integrity
	KeyDependsOnDefaultLanguageRecord: "\"%s\" depends on a default language record that has not been published yet",
	KeyIsDefaultLanguageRecord:        "\"%s\" depends on this default language record",
	KeyStatusSuccess:                  "Success",
	KeyStatusInfo:                     "Info",
	KeyStatusWarning:                  "Warning",
	KeyStatusError:                    "Error",
	KeyNoTitle:                        "[No title]",

	// Forms
	"form.not_found":        "Form definition not found",
	"form.save_success":     "Form definition saved",
	"form.delete_success":   "Form definition deleted",
	"form.not_allowed":      "This location is not allowed for form definitions",
	"form.duplicate":        "A form definition with this identifier already exists",
	"form.invalid_document": "The form definition could not be parsed",

	// Common errors
	"error.not_found":      "The requested resource was not found",
	"error.unauthorized":   "Authentication required",
	"error.forbidden":      "Access denied",
	"error.conflict":       "The request conflicts with the current state",
	"error.bad_request":    "Bad request",
	"error.internal":       "Internal server error",
	"error.admin_required": "Administrator access is required",
	"error.rate_limited":   "Too many requests, please retry shortly",
}

var jaMessages = map[string]string{
	// Workspace integrity
	KeyDependsOnDefaultLanguageRecord: "「%s」は未公開のデフォルト言語レコードに依存しています",
	KeyIsDefaultLanguageRecord:        "「%s」が依存しているデフォルト言語レコードです",
	KeyStatusSuccess:                  "問題なし",
	KeyStatusInfo:                     "情報",
	KeyStatusWarning:                  "警告",
	KeyStatusError:                    "エラー",
	KeyNoTitle:                        "[タイトルなし]",

	// Forms
	"form.not_found":        "フォーム定義が見つかりません",
	"form.save_success":     "フォーム定義を保存しました",
	"form.delete_success":   "フォーム定義を削除しました",
	"form.not_allowed":      "この場所にはフォーム定義を保存できません",
	"form.duplicate":        "同じ識別子のフォーム定義が既に存在します",
	"form.invalid_document": "フォーム定義を解析できません",

	// Common errors
	"error.not_found":      "リソースが見つかりません",
	"error.unauthorized":   "認証が必要です",
	"error.forbidden":      "アクセス権限がありません",
	"error.conflict":       "リクエストが現在の状態と競合しています",
	"error.bad_request":    "不正なリクエストです",
	"error.internal":       "サーバー内部エラーが発生しました",
	"error.admin_required": "管理者権限が必要です",
	"error.rate_limited":   "リクエストが多すぎます。しばらくしてから再試行してください",
}
