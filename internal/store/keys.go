package store

import "fmt"

// Key inventory. Every key the application touches is built here so the
// layout is visible in one place.
const (
	AllPostsKey  = "posts:all"
	AllUsersKey  = "users:all"
	UsernamesKey = "usernames"
)

func PostKey(postID string) string {
	return fmt.Sprintf("post:%s", postID)
}

func PostLikesKey(postID string) string {
	return fmt.Sprintf("post:%s:likes", postID)
}

func PostCommentsKey(postID string) string {
	return fmt.Sprintf("post:%s:comments", postID)
}

func CommentKey(commentID string) string {
	return fmt.Sprintf("comment:%s", commentID)
}

func UserKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func UserPostsKey(userID string) string {
	return fmt.Sprintf("user:%s:posts", userID)
}

func UserCommentsKey(userID string) string {
	return fmt.Sprintf("user:%s:comments", userID)
}

func UserBookmarksKey(userID string) string {
	return fmt.Sprintf("user:%s:bookmarks", userID)
}

func CategoryKey(category string) string {
	return fmt.Sprintf("category:%s:posts", category)
}

func TagKey(tag string) string {
	return fmt.Sprintf("tag:%s:posts", tag)
}
