package cache

import "strings"

const (
	GlobalKeyPrefix = "educlassroom"

	ServiceCourse = "course"
	ServiceAuth   = "auth"

	ObjectCourse     = "detail"
	ObjectCourseList = "list"
	ObjectRevokedJTI = "revoked"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// CourseKey is the key of a cached course with its lessons.
func CourseKey(courseID string) string {
	return GenerateCacheKey(ServiceCourse, ObjectCourse, courseID)
}

// CourseListKey is the key of the cached course catalogue.
func CourseListKey() string {
	return GenerateCacheKey(ServiceCourse, ObjectCourseList, "all")
}

// RevokedTokenKey marks a JWT id as logged out.
func RevokedTokenKey(jti string) string {
	return GenerateCacheKey(ServiceAuth, ObjectRevokedJTI, jti)
}
