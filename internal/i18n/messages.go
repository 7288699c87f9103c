package i18n

// catalog 消息目录，两种语言的键必须一致
var catalog = map[string]map[string]string{
	LocaleEnUS: {
		"error.bad_request":                    "Invalid request parameters",
		"error.unauthorized":                   "Please sign in first",
		"error.forbidden":                      "You do not have permission to perform this action",
		"error.not_found":                      "Resource not found",
		"error.internal":                       "Internal server error",
		"error.auth_header_invalid":            "Invalid authorization header",
		"error.token_invalid":                  "Session is invalid or expired, please sign in again",
		"error.token_revoked":                  "Session has been revoked, please sign in again",
		"error.rate_limited":                   "Too many requests, please retry in %d seconds",
		"error.login_too_many":                 "Too many login attempts, please retry in %d seconds",
		"error.rate_limit_unavailable":         "Rate limiter is unavailable, please retry later",
		"error.login_invalid":                  "Incorrect email or password",
		"error.login_failed":                   "Sign in failed",
		"error.register_failed":                "Registration failed",
		"error.email_exists":                   "This email is already registered",
		"error.email_invalid":                  "Invalid email address",
		"error.password_weak":                  "Password does not meet the policy",
		"error.password_min_length":            "Password must be at least %d characters",
		"error.password_require_upper":         "Password must contain an uppercase letter",
		"error.password_require_lower":         "Password must contain a lowercase letter",
		"error.password_require_number":        "Password must contain a number",
		"error.password_require_special":       "Password must contain a special character",
		"error.password_old_invalid":           "Current password is incorrect",
		"error.password_change_failed":         "Failed to change password",
		"error.profile_not_found":              "Profile not found",
		"error.profile_fetch_failed":           "Failed to load profiles",
		"error.profile_update_failed":          "Failed to update profile",
		"error.role_invalid":                   "Invalid role",
		"error.role_change_self":               "You cannot change your own role",
		"error.role_change_failed":             "Failed to change role",
		"error.slug_exists":                    "Slug is already in use",
		"error.title_required":                 "Title is required",
		"error.article_not_found":              "Article not found",
		"error.article_fetch_failed":           "Failed to load articles",
		"error.article_save_failed":            "Failed to save article",
		"error.article_delete_failed":          "Failed to delete article",
		"error.article_status_invalid":         "Invalid article status",
		"error.article_categories_required":    "A published article needs at least one category",
		"error.article_replace_incomplete":     "Title and content are required for a full update",
		"error.media_type_invalid":             "Media type must be image or video",
		"error.content_format_invalid":         "Content format must be html or markdown",
		"error.category_unknown":               "Unknown category",
		"error.category_not_found":             "Category not found",
		"error.category_in_use":                "Category is still used by articles",
		"error.category_id_invalid":            "Invalid category ID",
		"error.category_fetch_failed":          "Failed to load categories",
		"error.category_save_failed":           "Failed to save category",
		"error.category_delete_failed":         "Failed to delete category",
		"error.course_not_found":               "Course not found",
		"error.module_not_found":               "Course module not found",
		"error.video_not_found":                "Video not found",
		"error.material_not_found":             "Material not found",
		"error.course_id_invalid":              "Invalid course ID",
		"error.module_id_invalid":              "Invalid module ID",
		"error.item_id_invalid":                "Invalid item ID",
		"error.course_status_invalid":          "Invalid course status",
		"error.course_purge_requires_archive":  "Only archived courses can be permanently deleted",
		"error.course_fetch_failed":            "Failed to load courses",
		"error.course_save_failed":             "Failed to save course",
		"error.course_delete_failed":           "Failed to delete course",
		"error.claim_required":                 "Please describe the claim to check",
		"error.source_url_invalid":             "Source URL must be an http or https link",
		"error.fact_check_not_found":           "Fact check not found",
		"error.fact_check_status_invalid":      "Invalid fact check status",
		"error.fact_check_finalized":           "This fact check already has a final verdict",
		"error.fact_check_transition_invalid":  "This status change is not allowed",
		"error.fact_check_fetch_failed":        "Failed to load fact checks",
		"error.fact_check_submit_failed":       "Failed to submit fact check",
		"error.fact_check_review_failed":       "Failed to review fact check",
		"error.captcha_required":               "Please complete the captcha",
		"error.captcha_invalid":                "Captcha is incorrect or expired",
		"error.captcha_unavailable":            "Captcha is unavailable",
		"error.captcha_generate_failed":        "Failed to generate captcha",
		"error.captcha_verify_failed":          "Failed to verify captcha",
		"error.upload_file_missing":            "Please choose a file to upload",
		"error.upload_file_empty":              "The uploaded file is empty",
		"error.file_too_large":                 "File is too large, the limit is %d MB",
		"error.file_type_not_allowed":          "File type is not allowed",
		"error.storage_unavailable":            "Storage is temporarily unavailable, please retry",
		"error.storage_rejected":               "Storage rejected the upload",
		"error.storage_credentials_expired":    "Storage credentials have expired",
		"error.upload_failed":                  "Upload failed",
		"auth.password_changed":                "Password changed, please sign in again",
		"fact_check.status.pending":            "Pending",
		"fact_check.status.reviewing":          "Under review",
		"fact_check.status.verified":           "Verified",
		"fact_check.status.false":              "False",
		"fact_check.status.misleading":         "Misleading",
		"fact_check.status.rejected":           "Rejected",
		"email.fact_check_status.subject":      "[ZE News] Your fact check is now: %s",
		"email.fact_check_status.body":         "Hello %s,\n\nThank you for your submission.\n\nClaim: %s\nStatus: %s",
		"email.fact_check_status.note":         "Editor's note: %s",
		"email.fact_check_status.default_name": "reader",
	},
	LocaleZhCN: {
		"error.bad_request":                    "请求参数错误",
		"error.unauthorized":                   "请先登录",
		"error.forbidden":                      "无权执行该操作",
		"error.not_found":                      "资源不存在",
		"error.internal":                       "服务器内部错误",
		"error.auth_header_invalid":            "认证头格式错误",
		"error.token_invalid":                  "会话无效或已过期，请重新登录",
		"error.token_revoked":                  "会话已失效，请重新登录",
		"error.rate_limited":                   "请求过于频繁，请 %d 秒后再试",
		"error.login_too_many":                 "登录尝试次数过多，请 %d 秒后再试",
		"error.rate_limit_unavailable":         "限流服务不可用，请稍后重试",
		"error.login_invalid":                  "邮箱或密码错误",
		"error.login_failed":                   "登录失败",
		"error.register_failed":                "注册失败",
		"error.email_exists":                   "该邮箱已注册",
		"error.email_invalid":                  "邮箱格式不正确",
		"error.password_weak":                  "密码不符合安全策略",
		"error.password_min_length":            "密码长度至少 %d 位",
		"error.password_require_upper":         "密码必须包含大写字母",
		"error.password_require_lower":         "密码必须包含小写字母",
		"error.password_require_number":        "密码必须包含数字",
		"error.password_require_special":       "密码必须包含特殊字符",
		"error.password_old_invalid":           "当前密码错误",
		"error.password_change_failed":         "修改密码失败",
		"error.profile_not_found":              "用户不存在",
		"error.profile_fetch_failed":           "获取用户信息失败",
		"error.profile_update_failed":          "更新个人资料失败",
		"error.role_invalid":                   "角色无效",
		"error.role_change_self":               "不能修改自己的角色",
		"error.role_change_failed":             "修改角色失败",
		"error.slug_exists":                    "该 slug 已被使用",
		"error.title_required":                 "标题不能为空",
		"error.article_not_found":              "文章不存在",
		"error.article_fetch_failed":           "获取文章失败",
		"error.article_save_failed":            "保存文章失败",
		"error.article_delete_failed":          "删除文章失败",
		"error.article_status_invalid":         "文章状态无效",
		"error.article_categories_required":    "发布的文章至少需要一个分类",
		"error.article_replace_incomplete":     "整体更新需要提供标题与正文",
		"error.media_type_invalid":             "媒体类型只能是 image 或 video",
		"error.content_format_invalid":         "正文格式只能是 html 或 markdown",
		"error.category_unknown":               "分类不存在",
		"error.category_not_found":             "分类不存在",
		"error.category_in_use":                "分类仍被文章引用",
		"error.category_id_invalid":            "分类 ID 无效",
		"error.category_fetch_failed":          "获取分类失败",
		"error.category_save_failed":           "保存分类失败",
		"error.category_delete_failed":         "删除分类失败",
		"error.course_not_found":               "课程不存在",
		"error.module_not_found":               "课程模块不存在",
		"error.video_not_found":                "视频不存在",
		"error.material_not_found":             "资料不存在",
		"error.course_id_invalid":              "课程 ID 无效",
		"error.module_id_invalid":              "模块 ID 无效",
		"error.item_id_invalid":                "条目 ID 无效",
		"error.course_status_invalid":          "课程状态无效",
		"error.course_purge_requires_archive":  "只有已归档的课程才能永久删除",
		"error.course_fetch_failed":            "获取课程失败",
		"error.course_save_failed":             "保存课程失败",
		"error.course_delete_failed":           "删除课程失败",
		"error.claim_required":                 "请填写需要核查的内容",
		"error.source_url_invalid":             "来源链接必须是 http 或 https 地址",
		"error.fact_check_not_found":           "核查申请不存在",
		"error.fact_check_status_invalid":      "核查状态无效",
		"error.fact_check_finalized":           "该核查已给出最终结论",
		"error.fact_check_transition_invalid":  "不允许的状态变更",
		"error.fact_check_fetch_failed":        "获取核查申请失败",
		"error.fact_check_submit_failed":       "提交核查申请失败",
		"error.fact_check_review_failed":       "审核核查申请失败",
		"error.captcha_required":               "请完成验证码",
		"error.captcha_invalid":                "验证码错误或已过期",
		"error.captcha_unavailable":            "验证码不可用",
		"error.captcha_generate_failed":        "生成验证码失败",
		"error.captcha_verify_failed":          "验证码校验失败",
		"error.upload_file_missing":            "请选择要上传的文件",
		"error.upload_file_empty":              "上传的文件为空",
		"error.file_too_large":                 "文件过大，上限为 %d MB",
		"error.file_type_not_allowed":          "不支持的文件类型",
		"error.storage_unavailable":            "存储服务暂时不可用，请重试",
		"error.storage_rejected":               "存储服务拒绝了上传",
		"error.storage_credentials_expired":    "存储凭证已过期",
		"error.upload_failed":                  "上传失败",
		"auth.password_changed":                "密码已修改，请重新登录",
		"fact_check.status.pending":            "待处理",
		"fact_check.status.reviewing":          "审核中",
		"fact_check.status.verified":           "属实",
		"fact_check.status.false":              "不实",
		"fact_check.status.misleading":         "误导",
		"fact_check.status.rejected":           "已驳回",
		"email.fact_check_status.subject":      "【ZE News】您的核查申请状态：%s",
		"email.fact_check_status.body":         "%s 您好：\n\n感谢您的提交。\n\n核查内容：%s\n当前状态：%s",
		"email.fact_check_status.note":         "编辑说明：%s",
		"email.fact_check_status.default_name": "读者",
	},
}
