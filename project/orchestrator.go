// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package project

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/lazurite/compilerexec"
	"github.com/gogpu/lazurite/container"
	"github.com/gogpu/lazurite/internal/boolexpr"
)

// CompileOptions configures one Orchestrator.CompileAll run.
type CompileOptions struct {
	Profiles       []string
	OutputFolder   string
	ExtraDefines   []compilerexec.MacroDefine
	ShadercPaths   []string
	DxcPaths       []string
	ShadercExtra   []string
	DxcExtra       []string
	MaxWorkers     int
	Log            *logrus.Logger
}

// Orchestrator drives compilation of every material folder beneath a
// project root, reusing one shaderc/dxc process handle across the whole
// run the way compile() lazily creates its compilers on first use.
type Orchestrator struct {
	shaderc *compilerexec.ShadercCompiler
	dxc     *compilerexec.DxcCompiler
}

// CompileResult reports the outcome for one material folder.
type CompileResult struct {
	MaterialName string
	OutputPath   string
	ShaderCount  int
}

// CompileAll compiles every material folder under projectPath, writing each
// resulting .material.bin to opts.OutputFolder (or projectPath's parent
// when empty).
func (o *Orchestrator) CompileAll(ctx context.Context, projectPath string, opts CompileOptions) ([]CompileResult, error) {
	info, err := os.Stat(projectPath)
	if err != nil || !info.IsDir() {
		return nil, errors.Errorf("%q is not a project folder", projectPath)
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	cfg, err := LoadConfig(filepath.Join(projectPath, "project.toml"), opts.Profiles)
	if err != nil {
		return nil, err
	}

	dirs, err := materialFolders(projectPath, cfg)
	if err != nil {
		return nil, err
	}

	var results []CompileResult
	for _, dir := range dirs {
		log.WithField("material", filepath.Base(dir)).Info("compiling material")
		res, err := o.compileOne(ctx, dir, projectPath, cfg, opts, log)
		if err != nil {
			return results, errors.Wrapf(err, "compile material %s", dir)
		}
		if res != nil {
			results = append(results, *res)
		}
	}
	return results, nil
}

func materialFolders(projectPath string, cfg Config) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, pattern := range cfg.IncludePatterns {
		matches, err := filepath.Glob(filepath.Join(projectPath, pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "glob pattern %q", pattern)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.IsDir() {
				continue
			}
			if seen[m] {
				continue
			}
			excluded := false
			for _, ex := range cfg.ExcludePatterns {
				if ok, _ := filepath.Match(ex, filepath.Base(m)); ok {
					excluded = true
					break
				}
			}
			if excluded {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

type compileJob struct {
	shader     *container.Shader
	codePath   string
	varying    string
	entryPoint string
	defines    []compilerexec.MacroDefine
}

func (o *Orchestrator) compileOne(ctx context.Context, matDir, projectPath string, projCfg Config, opts CompileOptions, log *logrus.Logger) (*CompileResult, error) {
	matCfg, err := LoadMaterialConfig(filepath.Join(matDir, "config.toml"))
	if err != nil {
		return nil, err
	}

	compilable := map[container.Platform]bool{}
	for _, p := range projCfg.ParsedPlatforms() {
		if matCfg.SupportedPlatforms[p] {
			compilable[p] = true
		}
	}

	material, err := loadBaseMaterial(matDir, projectPath, projCfg, compilable)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil
	}

	var jobs []compileJob
	for _, pass := range material.Passes {
		fo := matCfg.FileOverwriteFor(pass.Name)
		for _, variant := range pass.Variants {
			for _, shader := range variant.Shaders {
				if !compilable[shader.Platform] {
					continue
				}
				codePath := filepath.Join(matDir, fo.GetStage(shader.Stage))
				if _, err := os.Stat(codePath); err != nil {
					continue
				}

				defines := generateDefines(projCfg, material, matCfg, pass, variant, opts.ExtraDefines)

				job := compileJob{shader: shader, codePath: codePath, defines: defines}
				if matCfg.CompilerType == CompilerShaderc {
					if shader.Stage != container.Compute {
						varyingPath := filepath.Join(matDir, fo.Varying)
						if _, err := os.Stat(varyingPath); err != nil {
							log.Warnf("varying file %q not found, skipping shader", varyingPath)
							continue
						}
						job.varying = varyingPath
					}
				} else {
					job.entryPoint = fo.EntryPoint
					if job.entryPoint == "" {
						job.entryPoint = pass.Name
					}
				}
				jobs = append(jobs, job)
			}
		}
	}

	if len(jobs) == 0 {
		return nil, nil
	}

	if err := o.runJobs(ctx, jobs, matCfg, projCfg, opts); err != nil {
		return nil, err
	}

	for _, pass := range material.Passes {
		for _, variant := range pass.Variants {
			var kept []*container.Shader
			for _, s := range variant.Shaders {
				if s.Bgfx != nil && len(s.Bgfx.ShaderBytes) > 0 {
					kept = append(kept, s)
				}
			}
			variant.Shaders = kept
		}
	}

	outDir := opts.OutputFolder
	if outDir == "" {
		outDir = filepath.Dir(projectPath)
	}
	outPath := filepath.Join(outDir, filepath.Base(matDir)+container.Extension)
	f, err := os.Create(outPath)
	if err != nil {
		return nil, errors.Wrap(err, "create output material file")
	}
	defer f.Close()
	if err := material.Write(f); err != nil {
		return nil, errors.Wrap(err, "write output material")
	}

	return &CompileResult{MaterialName: material.Name, OutputPath: outPath, ShaderCount: len(jobs)}, nil
}

func (o *Orchestrator) runJobs(ctx context.Context, jobs []compileJob, matCfg MaterialConfig, projCfg Config, opts CompileOptions) error {
	g, ctx := errgroup.WithContext(ctx)
	if opts.MaxWorkers > 0 {
		g.SetLimit(opts.MaxWorkers)
	}

	for i := range jobs {
		job := jobs[i]
		g.Go(func() error {
			switch matCfg.CompilerType {
			case CompilerShaderc:
				if o.shaderc == nil {
					c, err := compilerexec.NewShadercCompiler(opts.ShadercPaths...)
					if err != nil {
						return err
					}
					o.shaderc = c
				}
				bgfx, err := o.shaderc.Compile(ctx, job.codePath, compilerexec.ShadercOptions{
					Platform:   job.shader.Platform,
					Stage:      job.shader.Stage,
					VaryingDef: job.varying,
					Include:    projCfg.IncludeSearch,
					Defines:    job.defines,
					Extra:      append(append([]string{}, matCfg.CompilerOptions...), opts.ShadercExtra...),
				})
				if err != nil {
					return errors.Wrapf(err, "compile %s", job.codePath)
				}
				job.shader.Bgfx = bgfx
			case CompilerDxc:
				if o.dxc == nil {
					c, err := compilerexec.NewDxcCompiler(opts.DxcPaths...)
					if err != nil {
						return err
					}
					o.dxc = c
				}
				data, err := o.dxc.Compile(ctx, job.codePath, compilerexec.DxcOptions{
					Platform:   job.shader.Platform,
					Stage:      job.shader.Stage,
					EntryPoint: job.entryPoint,
					Include:    projCfg.IncludeSearch,
					Defines:    job.defines,
					Extra:      append(append([]string{}, matCfg.CompilerOptions...), opts.DxcExtra...),
				})
				if err != nil {
					return errors.Wrapf(err, "compile %s", job.codePath)
				}
				if job.shader.Bgfx == nil {
					job.shader.Bgfx = &container.BgfxShader{}
				}
				job.shader.Bgfx.ShaderBytes = data
			}
			return nil
		})
	}

	return g.Wait()
}

// loadBaseMaterial returns the pre-existing material to build on top of:
// merge_source candidates with the same folder name are merged together,
// falling back to a bare Material named after the folder.
func loadBaseMaterial(matDir, projectPath string, cfg Config, compilable map[container.Platform]bool) (*container.Material, error) {
	name := filepath.Base(matDir)

	var merged *container.Material
	for _, path := range cfg.MergeSource {
		if filepath.Base(path) != name+container.Extension {
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		m, err := container.ReadMaterial(f)
		f.Close()
		if err != nil {
			continue
		}
		if merged == nil {
			merged = m
		} else {
			merged.MergeVariants(m)
		}
	}

	if merged == nil {
		merged = container.NewMaterial()
		merged.Name = name
	}
	return merged, nil
}

// generateDefines builds the full define list for one (pass, variant)
// combination, mirroring _generate_defines.
func generateDefines(cfg Config, material *container.Material, matCfg MaterialConfig, pass *container.Pass, variant *container.Variant, extra []compilerexec.MacroDefine) []compilerexec.MacroDefine {
	defines := append([]compilerexec.MacroDefine{}, cfg.ParsedMacros()...)

	if matCfg.CompilerType == CompilerShaderc {
		defines = append(defines, compilerexec.NewMacroDefine("BGFX_CONFIG_MAX_BONES", 4))
	}

	for _, buf := range material.Buffers {
		defines = append(defines, compilerexec.NewMacroDefine("s_"+buf.Name+"_REG", int(buf.Reg1)))
	}

	if override, ok := matCfg.MacroOverwritePass[pass.Name]; ok {
		defines = append(defines, override...)
	} else {
		defines = append(defines, compilerexec.MacroDefine{Name: boolexpr.PassNameMacro(pass.Name)})
	}

	keys := make([]string, 0, len(variant.Flags))
	for k := range variant.Flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := variant.Flags[key]
		if byValue, ok := matCfg.MacroOverwriteFlags[key]; ok {
			if override, ok := byValue[value]; ok {
				defines = append(defines, override...)
				continue
			}
		}
		defines = append(defines, compilerexec.MacroDefine{Name: boolexpr.FlagNameMacro(key, value)})
	}

	return append(defines, extra...)
}
