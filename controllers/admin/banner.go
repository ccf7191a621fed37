package adminController

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/models"
)

// UploadBanner - Save image locally and store its public URL in DB
func UploadBanner(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No image uploaded"})
			return
		}

		bannerDir := filepath.Join(uploadsDir, "banners")
		if err := os.MkdirAll(bannerDir, os.ModePerm); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create upload folder"})
			return
		}

		origName := fileHeader.Filename
		ext := filepath.Ext(origName)
		baseName := strings.TrimSuffix(origName, ext)

		// Remove duplicate extensions like ".jpg.jpg"
		for {
			e := filepath.Ext(baseName)
			if e == ".jpg" || e == ".jpeg" || e == ".png" || e == ".gif" {
				baseName = strings.TrimSuffix(baseName, e)
			} else {
				break
			}
		}
		baseName = strings.ReplaceAll(baseName, " ", "_")

		newFileName := fmt.Sprintf("%d_%s%s", time.Now().Unix(), baseName, ext)
		savePath := filepath.Join(bannerDir, newFileName)

		if err := c.SaveUploadedFile(fileHeader, savePath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save file"})
			return
		}

		banner := models.Banner{ImageURL: "/uploads/banners/" + newFileName}
		if err := db.Create(&banner).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "DB save failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": banner})
	}
}

// GetBanners - List banners
func GetBanners(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banners []models.Banner
		if err := db.Order("created_at desc").Find(&banners).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get banners"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": banners})
	}
}

// DeleteBanner - Delete both DB record & local file
func DeleteBanner(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var banner models.Banner

		if err := db.First(&banner, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Banner not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
			return
		}

		if banner.ImageURL != "" {
			localPath := filepath.Join(uploadsDir, "banners", filepath.Base(banner.ImageURL))
			if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete file"})
				return
			}
		}

		if err := db.Delete(&banner).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete from database"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Banner deleted"})
	}
}
