package pkgpackage

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"
)

// Android metadata keys read from model.Project.Android (spec.md §6
// "Android packaging output"):
//
//	package              application ID, e.g. "com.example.hello" (required)
//	label                human-readable app label (default: project name)
//	version_code         integer version code (default "1")
//	version_name         display version (default "1.0")
//	min_sdk              minSdkVersion (default "21")
//	target_sdk           targetSdkVersion (default "33")
//	keystore             path to a JKS/PKCS12 keystore; signs the APK when set
//	keystore_password    keystore password, passed to apksigner as its --ks-pass argument
//	apksigner            path to the apksigner tool (default: "apksigner" on PATH)

// AssembleAPK writes a universal APK at outDir/<projectName>.apk containing a
// generated AndroidManifest.xml and every ABI's shared object under
// lib/<abi>/lib<projectName>.so (spec.md §6), then signs it with
// apksigner if a keystore is configured. abiOutputs maps ABI name (e.g.
// "arm64-v8a") to the linked .so path for that ABI.
func AssembleAPK(projectName string, abiOutputs map[string]string, meta map[string]string, outDir string) (Result, error) {
	pkg, err := metaRequired(meta, "package")
	if err != nil {
		return Result{}, err
	}
	if len(abiOutputs) == 0 {
		return Result{}, fmt.Errorf("pkgpackage: no ABI outputs to package for %q", projectName)
	}

	manifest := renderAndroidManifest(pkg, projectName, meta)

	apkPath := filepath.Join(outDir, projectName+".apk")
	if err := mkdirAllFor(apkPath); err != nil {
		return Result{}, err
	}

	tmp, err := os.CreateTemp(outDir, ".apk-*.tmp")
	if err != nil {
		return Result{}, err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	zw := zip.NewWriter(tmp)
	if err := writeZipEntry(zw, "AndroidManifest.xml", []byte(manifest)); err != nil {
		zw.Close()
		tmp.Close()
		return Result{}, err
	}

	abis := make([]string, 0, len(abiOutputs))
	for abi := range abiOutputs {
		abis = append(abis, abi)
	}
	sort.Strings(abis) // deterministic archive member order

	for _, abi := range abis {
		soPath := abiOutputs[abi]
		data, err := os.ReadFile(soPath)
		if err != nil {
			zw.Close()
			tmp.Close()
			return Result{}, fmt.Errorf("pkgpackage: reading %s for abi %s: %w", soPath, abi, err)
		}
		name := fmt.Sprintf("lib/%s/lib%s.so", abi, projectName)
		if err := writeZipEntry(zw, name, data); err != nil {
			zw.Close()
			tmp.Close()
			return Result{}, err
		}
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		return Result{}, err
	}
	if err := tmp.Close(); err != nil {
		return Result{}, err
	}
	if err := os.Rename(tmpName, apkPath); err != nil {
		return Result{}, err
	}

	var warnings []string
	if keystore := metaOr(meta, "keystore", ""); keystore != "" {
		if err := signAPK(apkPath, keystore, meta); err != nil {
			warnings = append(warnings, fmt.Sprintf("apksigner failed, APK left unsigned: %v", err))
		}
	}

	return Result{OutputPath: apkPath, Warnings: warnings}, nil
}

// writeZipEntry stores name with a fixed modification time so two builds
// with identical inputs produce byte-identical archives (spec.md §8
// property #5 extended to packaged artifacts).
func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Unix(0, 0).UTC(),
	}
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func renderAndroidManifest(pkg, projectName string, meta map[string]string) string {
	label := metaOr(meta, "label", projectName)
	versionCode := metaOr(meta, "version_code", "1")
	versionName := metaOr(meta, "version_name", "1.0")
	minSdk := metaOr(meta, "min_sdk", "21")
	targetSdk := metaOr(meta, "target_sdk", "33")

	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package="%s"
    android:versionCode="%s"
    android:versionName="%s">
    <uses-sdk android:minSdkVersion="%s" android:targetSdkVersion="%s" />
    <application android:label="%s" android:hasCode="false">
        <activity android:name="android.app.NativeActivity" android:label="%s" android:exported="true">
            <meta-data android:name="android.app.lib_name" android:value="%s" />
            <intent-filter>
                <action android:name="android.intent.action.MAIN" />
                <category android:name="android.intent.category.LAUNCHER" />
            </intent-filter>
        </activity>
    </application>
</manifest>
`, pkg, versionCode, versionName, minSdk, targetSdk, label, label, projectName)
}

func signAPK(apkPath, keystore string, meta map[string]string) error {
	tool := metaOr(meta, "apksigner", "apksigner")
	args := []string{"sign", "--ks", keystore}
	if pw := meta["keystore_password"]; pw != "" {
		args = append(args, "--ks-pass", "pass:"+pw)
	}
	args = append(args, apkPath)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	cmd := exec.CommandContext(ctx, tool, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", tool, err, string(out))
	}
	return nil
}
